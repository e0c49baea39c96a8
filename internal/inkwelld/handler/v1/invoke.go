package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runtime"
)

// InvokeHandler handles POST /v1/invoke.
type InvokeHandler struct {
	dispatcher *runtime.Dispatcher
}

// NewInvokeHandler creates a new InvokeHandler.
func NewInvokeHandler(dispatcher *runtime.Dispatcher) *InvokeHandler {
	return &InvokeHandler{dispatcher: dispatcher}
}

// Handle executes one agent invocation.
func (h *InvokeHandler) Handle(c *gin.Context) {
	var req InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &runtime.DispatchError{
			Category: errno.CategoryConfiguration,
			Err:      fmt.Errorf("bind invoke request: %w", err),
		}, nil)
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), runtime.Request{
		Agent:   req.Agent,
		Message: req.Message,
		Files:   req.Files,
		RunID:   req.RunID,
	})
	if err != nil {
		// A non-nil result alongside the error means partial turns
		// were persisted before a timeout or round-ceiling halt.
		writeError(c, err, result)
		return
	}

	c.JSON(http.StatusOK, result)
}
