package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthony-okoye/vestro/api"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/research"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/store/memory"
	"github.com/anthony-okoye/vestro/workflow"
)

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newOrchestrator(t *testing.T) (*workflow.Orchestrator, *memory.Store) {
	t.Helper()

	st := memory.New()
	reg := step.NewRegistry()
	research.MustRegister(reg, marketdata.NewStatic())

	orch, err := workflow.NewOrchestrator(st, st, reg, workflow.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return orch, st
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	orch, st := newOrchestrator(t)
	a := api.New(orch, api.WithHealthCheck(st), api.WithLogger(discardLogger()))
	return a.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

type sessionJSON struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	CurrentStep    int    `json:"current_step"`
	CompletedSteps []int  `json:"completed_steps"`
	Version        int64  `json:"version"`
}

type statusJSON struct {
	SessionID      string `json:"session_id"`
	CurrentStep    int    `json:"current_step"`
	CompletedCount int    `json:"completed_count"`
	Progress       int    `json:"progress"`
	TotalSteps     int    `json:"total_steps"`
	Completed      bool   `json:"completed"`
}

type outcomeJSON struct {
	Success  bool           `json:"success"`
	Data     map[string]any `json:"data"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
}

func startSession(t *testing.T, h http.Handler) sessionJSON {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/v1/workflows", map[string]any{"user_id": "analyst-7"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start workflow status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var sess sessionJSON
	decodeInto(t, rec, &sess)
	return sess
}

// stepInputs holds the request bodies that drive the pipeline end to
// end; steps absent from the map run on an empty object.
var stepInputs = map[int]map[string]any{
	1: {
		"riskTolerance":          "medium",
		"investmentHorizonYears": 10,
		"capitalAvailable":       50000,
		"longTermGoals":          "steady growth",
	},
	2:  {"sector": "technology"},
	4:  {"ticker": "NOVA"},
	7:  {"growthRatePct": 8, "discountRatePct": 12},
	11: {"orderType": "market", "quantity": 40},
}

func executeStep(t *testing.T, h http.Handler, sessionID string, n int) outcomeJSON {
	t.Helper()

	body := stepInputs[n]
	if body == nil {
		body = map[string]any{}
	}
	rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/workflows/%s/steps/%d", sessionID, n), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("execute step %d status = %d, want %d: %s", n, rec.Code, http.StatusOK, rec.Body.String())
	}
	var out outcomeJSON
	decodeInto(t, rec, &out)
	if !out.Success {
		t.Fatalf("step %d did not succeed: %v", n, out.Errors)
	}
	return out
}

func getStatus(t *testing.T, h http.Handler, sessionID string) statusJSON {
	t.Helper()

	rec := doJSON(t, h, http.MethodGet, "/v1/workflows/"+sessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var st statusJSON
	decodeInto(t, rec, &st)
	return st
}

// ──────────────────────────────────────────────────
// Session routes
// ──────────────────────────────────────────────────

func TestStartWorkflow(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	sess := startSession(t, h)
	if !strings.HasPrefix(sess.ID, "sess_") {
		t.Errorf("session id = %q, want sess_ prefix", sess.ID)
	}
	if sess.UserID != "analyst-7" {
		t.Errorf("user_id = %q, want analyst-7", sess.UserID)
	}
	if sess.CurrentStep != 1 {
		t.Errorf("current_step = %d, want 1", sess.CurrentStep)
	}
	if sess.Version != 1 {
		t.Errorf("version = %d, want 1", sess.Version)
	}
}

func TestStartWorkflowRejectsEmptyUser(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/workflows", map[string]any{"user_id": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestWorkflowStatus(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	sess := startSession(t, h)

	st := getStatus(t, h, sess.ID)
	if st.SessionID != sess.ID {
		t.Errorf("session_id = %q, want %q", st.SessionID, sess.ID)
	}
	if st.CurrentStep != 1 || st.TotalSteps != 12 {
		t.Errorf("position = %d/%d, want 1/12", st.CurrentStep, st.TotalSteps)
	}
	if st.Progress != 0 || st.Completed {
		t.Errorf("fresh session progress = %d completed = %v, want 0 and false", st.Progress, st.Completed)
	}
}

func TestWorkflowStatusUnknownSession(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/workflows/"+id.NewSessionID().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}

func TestWorkflowStatusMalformedID(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/workflows/not-an-id", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

// ──────────────────────────────────────────────────
// Step execution routes
// ──────────────────────────────────────────────────

func TestExecuteStepAdvancesSession(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	sess := startSession(t, h)

	out := executeStep(t, h, sess.ID, 1)
	if out.Data["riskTolerance"] != "medium" {
		t.Errorf("data[riskTolerance] = %v, want medium", out.Data["riskTolerance"])
	}

	st := getStatus(t, h, sess.ID)
	if st.CurrentStep != 2 {
		t.Errorf("current_step after step 1 = %d, want 2", st.CurrentStep)
	}
	if st.CompletedCount != 1 {
		t.Errorf("completed_count = %d, want 1", st.CompletedCount)
	}
}

func TestExecuteStepOutOfOrder(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	sess := startSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/workflows/"+sess.ID+"/steps/7", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestExecuteStepValidationFailure(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	sess := startSession(t, h)

	body := map[string]any{
		"riskTolerance":          "extreme",
		"investmentHorizonYears": 10,
		"capitalAvailable":       50000,
		"longTermGoals":          "steady growth",
	}
	rec := doJSON(t, h, http.MethodPost, "/v1/workflows/"+sess.ID+"/steps/1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var out outcomeJSON
	decodeInto(t, rec, &out)
	if out.Success {
		t.Fatal("Success = true, want false for rejected inputs")
	}
	if len(out.Errors) == 0 {
		t.Fatal("Errors is empty, want at least one validation message")
	}

	// The session did not move.
	if st := getStatus(t, h, sess.ID); st.CurrentStep != 1 {
		t.Errorf("current_step = %d, want 1 after a validation failure", st.CurrentStep)
	}
}

func TestExecuteStepMalformedBody(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	sess := startSession(t, h)

	req := httptest.NewRequest(http.MethodPost, "/v1/workflows/"+sess.ID+"/steps/1", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestSkipOptionalStep(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	sess := startSession(t, h)

	for n := 1; n <= 7; n++ {
		executeStep(t, h, sess.ID, n)
	}

	rec := doJSON(t, h, http.MethodPost, "/v1/workflows/"+sess.ID+"/steps/8/skip", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("skip status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var after sessionJSON
	decodeInto(t, rec, &after)
	if after.CurrentStep != 9 {
		t.Errorf("current_step after skip = %d, want 9", after.CurrentStep)
	}
	for _, n := range after.CompletedSteps {
		if n == 8 {
			t.Error("skipped step 8 appears in completed_steps")
		}
	}
}

func TestSkipRejectsMandatoryStep(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	sess := startSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/workflows/"+sess.ID+"/steps/1/skip", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestResetWorkflow(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	sess := startSession(t, h)
	executeStep(t, h, sess.ID, 1)

	rec := doJSON(t, h, http.MethodPost, "/v1/workflows/"+sess.ID+"/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var after sessionJSON
	decodeInto(t, rec, &after)
	if after.CurrentStep != 1 || len(after.CompletedSteps) != 0 {
		t.Errorf("after reset current_step = %d completed = %v, want 1 and empty", after.CurrentStep, after.CompletedSteps)
	}

	if st := getStatus(t, h, sess.ID); st.Progress != 0 || st.CompletedCount != 0 {
		t.Errorf("status after reset = %d%% with %d completed, want 0 and 0", st.Progress, st.CompletedCount)
	}
}

func TestResetUnknownSession(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/workflows/"+id.NewSessionID().String()+"/reset", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}

// ──────────────────────────────────────────────────
// Whole pipeline over the wire
// ──────────────────────────────────────────────────

func TestPipelineOverHTTP(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	sess := startSession(t, h)

	for n := 1; n <= 12; n++ {
		executeStep(t, h, sess.ID, n)
	}

	st := getStatus(t, h, sess.ID)
	if !st.Completed {
		t.Error("Completed = false after all twelve steps")
	}
	if st.Progress != 100 {
		t.Errorf("Progress = %d, want 100", st.Progress)
	}
	if st.CurrentStep != 13 {
		t.Errorf("current_step = %d, want 13", st.CurrentStep)
	}
}

// ──────────────────────────────────────────────────
// Catalog and health
// ──────────────────────────────────────────────────

func TestListSteps(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/steps", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var catalog struct {
		Steps []struct {
			Number   int    `json:"number"`
			Label    string `json:"label"`
			Optional bool   `json:"optional"`
		} `json:"steps"`
		Total int `json:"total"`
	}
	decodeInto(t, rec, &catalog)

	if catalog.Total != 12 || len(catalog.Steps) != 12 {
		t.Fatalf("catalog size = %d/%d, want 12/12", catalog.Total, len(catalog.Steps))
	}
	for i, s := range catalog.Steps {
		if s.Number != i+1 {
			t.Errorf("steps[%d].number = %d, want %d", i, s.Number, i+1)
		}
		if s.Label == "" {
			t.Errorf("steps[%d].label is empty", i)
		}
		if wantOptional := s.Number == 8; s.Optional != wantOptional {
			t.Errorf("steps[%d].optional = %v, want %v", i, s.Optional, wantOptional)
		}
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var health struct {
		Status string `json:"status"`
	}
	decodeInto(t, rec, &health)
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header is empty, want a generated request id")
	}
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestHealthzReportsStoreOutage(t *testing.T) {
	t.Parallel()

	orch, _ := newOrchestrator(t)
	a := api.New(orch, api.WithHealthCheck(failingPinger{}), api.WithLogger(discardLogger()))
	h := a.Handler()

	rec := doJSON(t, h, http.MethodGet, "/v1/healthz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusServiceUnavailable, rec.Body.String())
	}
}
