package openai

import (
	"context"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/spi"
)

const Name = "openai"

var _ spi.Plugin = (*Plugin)(nil)

type Plugin struct{}

func New() spi.Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string {
	return Name
}

func (p *Plugin) BuildChatModel(ctx context.Context, modelID string, cfg config.ProviderConfig, params *spi.Params) (model.BaseChatModel, error) {
	conf := &einoOpenAI.ChatModelConfig{
		Model:     modelID,
		APIKey:    spi.APIKeyFromConfig(cfg, "OPENAI_API_KEY"),
		MaxTokens: gptr.Of(4096),
	}

	// Set BaseURL only for non-default OpenAI endpoints.
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}

	applyParams(conf, params)

	return einoOpenAI.NewChatModel(ctx, conf)
}

func applyParams(conf *einoOpenAI.ChatModelConfig, params *spi.Params) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		conf.Temperature = params.Temperature
	}
	if params.MaxTokens != nil {
		conf.MaxTokens = gptr.Of(*params.MaxTokens)
	}
	if params.FrequencyPenalty != nil {
		conf.FrequencyPenalty = gptr.Of(*params.FrequencyPenalty)
	}
	if params.PresencePenalty != nil {
		conf.PresencePenalty = gptr.Of(*params.PresencePenalty)
	}
	conf.TopP = params.TopP
}
