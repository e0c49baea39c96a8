package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell/internal/inkwell/definition"
)

// AgentHandler handles the agent definition read endpoints.
type AgentHandler struct {
	parser *definition.Parser
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(parser *definition.Parser) *AgentHandler {
	return &AgentHandler{parser: parser}
}

// List handles GET /v1/agents. Definitions that fail to parse are
// listed with their error instead of hiding the file.
func (h *AgentHandler) List(c *gin.Context) {
	names, err := h.parser.List()
	if err != nil {
		writeError(c, err, nil)
		return
	}

	items := make([]AgentListItem, 0, len(names))
	for _, name := range names {
		item := AgentListItem{Name: name}
		if def, err := h.parser.Load(name); err != nil {
			item.Error = err.Error()
		} else {
			item.Description = def.Description
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Get handles GET /v1/agents/:name.
func (h *AgentHandler) Get(c *gin.Context) {
	def, err := h.parser.Load(c.Param("name"))
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, toAgentResponse(def))
}
