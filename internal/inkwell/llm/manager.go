package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/spi"
	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
)

// Manager resolves agent model references against the plugin registry
// and the per-provider configuration sections.
type Manager struct {
	registry  *Registry
	providers map[string]config.ProviderConfig
}

// NewManager creates a Manager over a registry and the configured
// provider sections.
func NewManager(registry *Registry, providers map[string]config.ProviderConfig) *Manager {
	return &Manager{registry: registry, providers: providers}
}

// ChatModel builds a tool-calling chat model for a "provider/model-id"
// reference. Unknown providers yield errno.ErrModelNotFound; models
// that cannot bind tools yield errno.ErrModelNoToolCalls.
func (m *Manager) ChatModel(ctx context.Context, ref string, params *spi.Params) (model.ToolCallingChatModel, error) {
	provider, modelID := entity.SplitModelRef(ref)
	if modelID == "" {
		return nil, fmt.Errorf("model reference %q has no model id: %w", ref, errno.ErrModelNotFound)
	}

	factory, err := m.registry.Get(provider)
	if err != nil {
		return nil, fmt.Errorf("model %q: unknown provider %q (have %s): %w",
			ref, provider, strings.Join(m.registry.List(), ", "), errno.ErrModelNotFound)
	}

	plugin := factory()
	base, err := plugin.BuildChatModel(ctx, modelID, m.providers[provider], params)
	if err != nil {
		return nil, fmt.Errorf("build model %q: %w", ref, err)
	}

	tcm, ok := base.(model.ToolCallingChatModel)
	if !ok {
		return nil, fmt.Errorf("model %q: %w", ref, errno.ErrModelNoToolCalls)
	}
	return tcm, nil
}

// Providers returns the registered provider names.
func (m *Manager) Providers() []string {
	return m.registry.List()
}
