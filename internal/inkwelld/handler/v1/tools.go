package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell/internal/inkwell/tools"
)

// ToolHandler handles GET /v1/tools.
type ToolHandler struct {
	registry *tools.Registry
}

// NewToolHandler creates a new ToolHandler.
func NewToolHandler(registry *tools.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// List returns every registered tool with its parameter schema.
func (h *ToolHandler) List(c *gin.Context) {
	defs := h.registry.All()
	resp := make([]ToolResponse, 0, len(defs))
	for _, def := range defs {
		tr := ToolResponse{Name: def.Name, Description: def.Description}
		for _, p := range def.Parameters {
			tr.Parameters = append(tr.Parameters, ToolParameterResponse{
				Name:        p.Name,
				Type:        p.Type,
				Description: p.Description,
				Required:    p.Required,
			})
		}
		resp = append(resp, tr)
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
