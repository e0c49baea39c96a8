package claude

import (
	"context"

	einoClaude "github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/spi"
)

const Name = "claude"

// defaultMaxTokens applies when the agent does not set max_tokens; the
// Anthropic API requires the field.
const defaultMaxTokens = 4096

var _ spi.Plugin = (*Plugin)(nil)

type Plugin struct{}

func New() spi.Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string {
	return Name
}

func (p *Plugin) BuildChatModel(ctx context.Context, modelID string, cfg config.ProviderConfig, params *spi.Params) (model.BaseChatModel, error) {
	conf := &einoClaude.Config{
		APIKey:    spi.APIKeyFromConfig(cfg, "ANTHROPIC_API_KEY"),
		Model:     modelID,
		MaxTokens: defaultMaxTokens,
	}

	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		conf.BaseURL = &baseURL
	}

	applyParams(conf, params)

	return einoClaude.NewChatModel(ctx, conf)
}

func applyParams(conf *einoClaude.Config, params *spi.Params) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		conf.Temperature = params.Temperature
	}
	if params.MaxTokens != nil {
		conf.MaxTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		conf.TopP = params.TopP
	}
}
