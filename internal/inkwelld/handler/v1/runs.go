package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell/internal/inkwell/runstore"
)

// RunHandler handles the run inspection endpoints.
type RunHandler struct {
	runs      *runstore.Store
	artifacts *runstore.ArtifactStore
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runs *runstore.Store, artifacts *runstore.ArtifactStore) *RunHandler {
	return &RunHandler{runs: runs, artifacts: artifacts}
}

// List handles GET /v1/runs.
func (h *RunHandler) List(c *gin.Context) {
	runs, err := h.runs.List()
	if err != nil {
		writeError(c, err, nil)
		return
	}

	resp := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunSummary(run))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Get handles GET /v1/runs/:id, returning the full turn history.
func (h *RunHandler) Get(c *gin.Context) {
	run, err := h.runs.Load(c.Param("id"))
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, run)
}

// Artifacts handles GET /v1/runs/:id/artifacts.
func (h *RunHandler) Artifacts(c *gin.Context) {
	arts, err := h.artifacts.ListArtifacts(c.Param("id"))
	if err != nil {
		writeError(c, err, nil)
		return
	}

	resp := make([]ArtifactResponse, 0, len(arts))
	for _, a := range arts {
		resp = append(resp, ArtifactResponse{
			Name:        a.Name,
			Description: a.Meta.Description,
			Size:        a.Meta.Size,
			CreatedAt:   a.Meta.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
