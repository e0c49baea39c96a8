package inkwelld

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/definition"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runstore"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runtime"
	"github.com/inkwell-ai/inkwell/internal/inkwell/tools"
	"github.com/inkwell-ai/inkwell/internal/inkwelld/handler/middleware"
	v1 "github.com/inkwell-ai/inkwell/internal/inkwelld/handler/v1"
)

// routerDeps holds the dependencies needed for route registration.
type routerDeps struct {
	cfg        *config.Config
	dispatcher *runtime.Dispatcher
	parser     *definition.Parser
	registry   *tools.Registry
	runs       *runstore.Store
	artifacts  *runstore.ArtifactStore
}

func initRouter(g *gin.Engine, deps *routerDeps) {
	installMiddleware(g, deps)
	installController(g, deps)
}

func installMiddleware(g *gin.Engine, deps *routerDeps) {
	g.Use(gin.Recovery())
	g.Use(middleware.RequestID())
	g.Use(middleware.CORS())

	if token := deps.cfg.HTTP.Token; token != "" {
		g.Use(middleware.BearerAuth(token))
	}
}

func installController(g *gin.Engine, deps *routerDeps) {
	invokeHandler := v1.NewInvokeHandler(deps.dispatcher)
	agentHandler := v1.NewAgentHandler(deps.parser)
	toolHandler := v1.NewToolHandler(deps.registry)
	runHandler := v1.NewRunHandler(deps.runs, deps.artifacts)

	g.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := g.Group("/v1")
	{
		apiV1.POST("/invoke", invokeHandler.Handle)

		apiV1.GET("/agents", agentHandler.List)
		apiV1.GET("/agents/:name", agentHandler.Get)

		apiV1.GET("/tools", toolHandler.List)

		apiV1.GET("/runs", runHandler.List)
		apiV1.GET("/runs/:id", runHandler.Get)
		apiV1.GET("/runs/:id/artifacts", runHandler.Artifacts)
	}
}
