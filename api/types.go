package api

import (
	"github.com/anthony-okoye/vestro/step"
)

// StartWorkflowRequest begins a research session for one user.
type StartWorkflowRequest struct {
	UserID string `json:"user_id"`
}

// StepCatalogResponse lists the pipeline's step definitions in order.
type StepCatalogResponse struct {
	Steps []step.Definition `json:"steps"`
	Total int               `json:"total"`
}

// HealthResponse reports liveness of the API and its backing store.
type HealthResponse struct {
	Status string `json:"status"`
}
