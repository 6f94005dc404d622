package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/workflow"
)

// StartWorkflow begins a research session for the given user.
func (c *Client) StartWorkflow(ctx context.Context, userID string) (*workflow.Session, error) {
	var sess workflow.Session
	body := map[string]string{"user_id": userID}
	if err := c.do(ctx, http.MethodPost, "/v1/workflows", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// ExecuteStep runs one pipeline step with the given inputs. Validation
// failures are reported inside the returned outcome, not as an error.
func (c *Client) ExecuteStep(ctx context.Context, sessionID id.SessionID, stepNumber int, inputs step.Inputs) (*step.Outcome, error) {
	if inputs == nil {
		inputs = step.Inputs{}
	}
	var outcome step.Outcome
	path := fmt.Sprintf("/v1/workflows/%s/steps/%d", sessionID, stepNumber)
	if err := c.do(ctx, http.MethodPost, path, inputs, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// SkipStep advances the session past an optional step without running
// it.
func (c *Client) SkipStep(ctx context.Context, sessionID id.SessionID, stepNumber int) (*workflow.Session, error) {
	var sess workflow.Session
	path := fmt.Sprintf("/v1/workflows/%s/steps/%d/skip", sessionID, stepNumber)
	if err := c.do(ctx, http.MethodPost, path, nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Status reports the session's position and progress.
func (c *Client) Status(ctx context.Context, sessionID id.SessionID) (*workflow.Status, error) {
	var status workflow.Status
	if err := c.do(ctx, http.MethodGet, "/v1/workflows/"+sessionID.String(), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Reset discards all step results and returns the session to step 1.
func (c *Client) Reset(ctx context.Context, sessionID id.SessionID) (*workflow.Session, error) {
	var sess workflow.Session
	if err := c.do(ctx, http.MethodPost, "/v1/workflows/"+sessionID.String()+"/reset", nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Steps fetches the pipeline's step catalog in order.
func (c *Client) Steps(ctx context.Context) ([]step.Definition, error) {
	var catalog struct {
		Steps []step.Definition `json:"steps"`
		Total int               `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/steps", nil, &catalog); err != nil {
		return nil, err
	}
	return catalog.Steps, nil
}

// Health checks that the server and its store are reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/healthz", nil, nil)
}
