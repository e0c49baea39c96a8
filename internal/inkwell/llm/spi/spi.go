// Package spi defines the interface between the model manager and
// provider plugins.
package spi

import (
	"context"
	"os"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
)

// Params are the resolved generation parameters passed to a provider.
// Nil fields mean "use the provider default".
type Params struct {
	Temperature      *float32
	MaxTokens        *int
	TopP             *float32
	FrequencyPenalty *float32
	PresencePenalty  *float32
}

// ParamsFromDefinition converts a validated agent definition's
// generation fields into provider params.
func ParamsFromDefinition(def *entity.AgentDefinition) *Params {
	p := &Params{}
	if def.Temperature != nil {
		v := float32(*def.Temperature)
		p.Temperature = &v
	}
	if def.MaxTokens != nil {
		v := *def.MaxTokens
		p.MaxTokens = &v
	}
	if def.TopP != nil {
		v := float32(*def.TopP)
		p.TopP = &v
	}
	if def.FrequencyPenalty != nil {
		v := float32(*def.FrequencyPenalty)
		p.FrequencyPenalty = &v
	}
	if def.PresencePenalty != nil {
		v := float32(*def.PresencePenalty)
		p.PresencePenalty = &v
	}
	return p
}

// Plugin is the interface for provider plugins.
type Plugin interface {
	// Name returns the provider name used in "provider/model-id" refs.
	Name() string
	// BuildChatModel builds an Eino chat model for the given model id.
	// params may be nil, in which case provider defaults are used.
	BuildChatModel(ctx context.Context, modelID string, cfg config.ProviderConfig, params *Params) (model.BaseChatModel, error)
}

// PluginFactory is a function that creates a Plugin instance.
type PluginFactory func() Plugin

// ResolveEnvValue resolves "${ENV_VAR}" references in a string.
func ResolveEnvValue(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}

// APIKeyFromConfig resolves the configured API key, falling back to the
// provider's conventional environment variable when none is configured.
func APIKeyFromConfig(cfg config.ProviderConfig, envVar string) string {
	if key := ResolveEnvValue(cfg.APIKey); key != "" {
		return key
	}
	return os.Getenv(envVar)
}
