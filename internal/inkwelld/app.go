// Package inkwelld assembles and runs the agent server: the gin HTTP
// API and the MCP stdio endpoint, both backed by the same dispatcher.
package inkwelld

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/definition"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm"
	"github.com/inkwell-ai/inkwell/internal/inkwell/prompt"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runstore"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runtime"
	"github.com/inkwell-ai/inkwell/internal/inkwell/tools"
	"github.com/inkwell-ai/inkwell/pkg/logger"
	"github.com/inkwell-ai/inkwell/pkg/utils/safego"
)

// App owns every long-lived component of the server process.
type App struct {
	cfg        *config.Config
	db         *runstore.DB
	parser     *definition.Parser
	registry   *tools.Registry
	runs       *runstore.Store
	artifacts  *runstore.ArtifactStore
	dispatcher *runtime.Dispatcher
}

// NewApp wires the full component graph from a loaded configuration.
func NewApp(cfg *config.Config) (*App, error) {
	logger.SetLevel(cfg.LogLevel)

	db, err := runstore.Open(cfg.RunDBPath())
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry()
	tools.RegisterBuiltins(registry)

	parser := definition.NewParser(cfg, registry)
	renderer := prompt.NewRenderer(cfg.IncludesDir, nil)
	models := llm.NewManager(llm.NewInTreeRegistry(), cfg.Providers)
	runs := runstore.NewStore(db)
	artifacts := runstore.NewArtifactStore(cfg.ArtifactsDir())

	return &App{
		cfg:        cfg,
		db:         db,
		parser:     parser,
		registry:   registry,
		runs:       runs,
		artifacts:  artifacts,
		dispatcher: runtime.NewDispatcher(cfg, parser, renderer, registry, models, runs, artifacts),
	}, nil
}

// Run serves the HTTP API until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if !a.cfg.HTTP.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	g := gin.New()
	initRouter(g, &routerDeps{
		cfg:        a.cfg,
		dispatcher: a.dispatcher,
		parser:     a.parser,
		registry:   a.registry,
		runs:       a.runs,
		artifacts:  a.artifacts,
	})
	if a.cfg.HTTP.Debug {
		pprof.Register(g)
	}

	// Definition cache invalidation follows the agents directory.
	safego.Go(ctx, func() {
		if err := a.parser.Watch(ctx); err != nil {
			logger.WarnX("inkwelld", "definition watcher stopped: %v", err)
		}
	})

	srv := &http.Server{Addr: a.cfg.HTTP.Addr, Handler: g}

	errCh := make(chan error, 1)
	safego.Go(ctx, func() {
		logger.InfoX("inkwelld", "http server listening on %s", a.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// RunMCP serves the MCP stdio endpoint until stdin closes. Stdout
// carries protocol frames only, so logs must stay on stderr.
func (a *App) RunMCP(ctx context.Context) error {
	logger.SetOutput(os.Stderr)
	return serveMCPStdio(ctx, newMCPServer(a.dispatcher, a.parser, a.registry))
}

// Close releases held resources.
func (a *App) Close() error {
	return a.db.Close()
}
