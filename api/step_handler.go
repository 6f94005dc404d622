package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *API) listSteps(c echo.Context) error {
	return c.JSON(http.StatusOK, StepCatalogResponse{
		Steps: a.orch.Steps(),
		Total: a.orch.TotalSteps(),
	})
}
