package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/step"
)

func (a *API) startWorkflow(c echo.Context) error {
	var req StartWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}

	sess, err := a.orch.StartWorkflow(c.Request().Context(), req.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, sess)
}

func (a *API) workflowStatus(c echo.Context) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	status, err := a.orch.GetWorkflowStatus(c.Request().Context(), sessionID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, status)
}

func (a *API) executeStep(c echo.Context) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}
	stepNumber, err := parseStepNumber(c)
	if err != nil {
		return err
	}

	// BindBody rather than Bind: the body is a free-form inputs object,
	// and full binding would copy the path params into the map.
	inputs := step.Inputs{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &inputs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}

	outcome, err := a.orch.ExecuteStep(c.Request().Context(), sessionID, stepNumber, inputs)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, outcome)
}

func (a *API) skipStep(c echo.Context) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}
	stepNumber, err := parseStepNumber(c)
	if err != nil {
		return err
	}

	sess, err := a.orch.SkipOptionalStep(c.Request().Context(), sessionID, stepNumber)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (a *API) resetWorkflow(c echo.Context) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	sess, err := a.orch.ResetWorkflow(c.Request().Context(), sessionID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func parseSessionID(c echo.Context) (id.SessionID, error) {
	sessionID, err := id.ParseSessionID(c.Param("id"))
	if err != nil {
		return id.SessionID{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid session id: %v", err))
	}
	return sessionID, nil
}

func parseStepNumber(c echo.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid step number %q", c.Param("step")))
	}
	return n, nil
}

// httpError converts vestro sentinel errors to echo HTTP errors.
func httpError(err error) error {
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case isBadRequest(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, vestro.ErrSessionConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return err
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, vestro.ErrSessionNotFound) ||
		errors.Is(err, vestro.ErrResultNotFound) ||
		errors.Is(err, vestro.ErrProfileNotFound)
}

func isBadRequest(err error) bool {
	return errors.Is(err, vestro.ErrInvalidStep) ||
		errors.Is(err, vestro.ErrStepNotOptional) ||
		errors.Is(err, vestro.ErrUnregisteredStep) ||
		errors.Is(err, vestro.ErrInvalidUser)
}
