package util

import (
	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/definition"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm"
	"github.com/inkwell-ai/inkwell/internal/inkwell/prompt"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runstore"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runtime"
	"github.com/inkwell-ai/inkwell/internal/inkwell/tools"
	"github.com/inkwell-ai/inkwell/pkg/logger"
)

// Factory lazily builds the component graph subcommands need, so a
// command that only reads agent files never opens the run database.
// The config path is a pointer because the flag it comes from is parsed
// after the factory is constructed.
type Factory struct {
	cfgPath *string

	cfg       *config.Config
	db        *runstore.DB
	registry  *tools.Registry
	parser    *definition.Parser
	runs      *runstore.Store
	artifacts *runstore.ArtifactStore
}

// NewFactory creates a Factory reading configuration from *cfgPath, or
// the default locations when empty.
func NewFactory(cfgPath *string) *Factory {
	return &Factory{cfgPath: cfgPath}
}

// Config loads (once) and returns the configuration.
func (f *Factory) Config() (*config.Config, error) {
	if f.cfg == nil {
		path := ""
		if f.cfgPath != nil {
			path = *f.cfgPath
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		logger.SetLevel(cfg.LogLevel)
		f.cfg = cfg
	}
	return f.cfg, nil
}

// Registry returns the tool registry with builtins registered.
func (f *Factory) Registry() *tools.Registry {
	if f.registry == nil {
		f.registry = tools.NewRegistry()
		tools.RegisterBuiltins(f.registry)
	}
	return f.registry
}

// Parser returns the agent definition parser.
func (f *Factory) Parser() (*definition.Parser, error) {
	if f.parser == nil {
		cfg, err := f.Config()
		if err != nil {
			return nil, err
		}
		f.parser = definition.NewParser(cfg, f.Registry())
	}
	return f.parser, nil
}

// RunStore opens (once) and returns the run store.
func (f *Factory) RunStore() (*runstore.Store, error) {
	if f.runs == nil {
		cfg, err := f.Config()
		if err != nil {
			return nil, err
		}
		db, err := runstore.Open(cfg.RunDBPath())
		if err != nil {
			return nil, err
		}
		f.db = db
		f.runs = runstore.NewStore(db)
	}
	return f.runs, nil
}

// Artifacts returns the artifact store.
func (f *Factory) Artifacts() (*runstore.ArtifactStore, error) {
	if f.artifacts == nil {
		cfg, err := f.Config()
		if err != nil {
			return nil, err
		}
		f.artifacts = runstore.NewArtifactStore(cfg.ArtifactsDir())
	}
	return f.artifacts, nil
}

// Dispatcher assembles the full invocation pipeline.
func (f *Factory) Dispatcher() (*runtime.Dispatcher, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	parser, err := f.Parser()
	if err != nil {
		return nil, err
	}
	runs, err := f.RunStore()
	if err != nil {
		return nil, err
	}
	artifacts, err := f.Artifacts()
	if err != nil {
		return nil, err
	}

	renderer := prompt.NewRenderer(cfg.IncludesDir, nil)
	models := llm.NewManager(llm.NewInTreeRegistry(), cfg.Providers)
	return runtime.NewDispatcher(cfg, parser, renderer, f.Registry(), models, runs, artifacts), nil
}

// Close releases the run database if it was opened.
func (f *Factory) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}
