package deepseek

import (
	"context"

	einoDeepseek "github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino/components/model"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/spi"
)

const Name = "deepseek"

var _ spi.Plugin = (*Plugin)(nil)

type Plugin struct{}

func New() spi.Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string {
	return Name
}

func (p *Plugin) BuildChatModel(ctx context.Context, modelID string, cfg config.ProviderConfig, params *spi.Params) (model.BaseChatModel, error) {
	conf := &einoDeepseek.ChatModelConfig{
		APIKey:             spi.APIKeyFromConfig(cfg, "DEEPSEEK_API_KEY"),
		Model:              modelID,
		Temperature:        0.7,
		ResponseFormatType: einoDeepseek.ResponseFormatTypeText,
	}

	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}

	applyParams(conf, params)

	return einoDeepseek.NewChatModel(ctx, conf)
}

func applyParams(conf *einoDeepseek.ChatModelConfig, params *spi.Params) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		conf.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		conf.MaxTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		conf.TopP = *params.TopP
	}
	if params.FrequencyPenalty != nil {
		conf.FrequencyPenalty = *params.FrequencyPenalty
	}
	if params.PresencePenalty != nil {
		conf.PresencePenalty = *params.PresencePenalty
	}
}
