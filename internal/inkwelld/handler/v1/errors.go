package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runtime"
	"github.com/inkwell-ai/inkwell/pkg/logger"
)

// statusOf maps an error category to its HTTP status. Clients key off
// the category string; the status is a transport convenience.
func statusOf(cat errno.Category) int {
	switch cat {
	case errno.CategoryConfiguration, errno.CategoryResolution:
		return http.StatusBadRequest
	case errno.CategoryAuthentication:
		return http.StatusUnauthorized
	case errno.CategoryNotFound:
		return http.StatusNotFound
	case errno.CategoryTimeout:
		return http.StatusGatewayTimeout
	case errno.CategoryTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders the uniform error envelope. partial carries fields
// worth surfacing even though the invocation failed, like the run id of
// a timed-out run whose turns were persisted.
func writeError(c *gin.Context, err error, partial interface{}) {
	cat := runtime.CategoryOf(err)
	logger.WarnX("handler", "%s %s failed (%s): %v", c.Request.Method, c.Request.URL.Path, cat, err)

	body := gin.H{
		"error": gin.H{
			"category": string(cat),
			"message":  err.Error(),
		},
	}
	if partial != nil {
		body["partial"] = partial
	}
	c.JSON(statusOf(cat), body)
}
