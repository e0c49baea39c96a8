package ollama

import (
	"context"

	einoOllama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/spi"
)

const Name = "ollama"

const defaultBaseURL = "http://127.0.0.1:11434"

var _ spi.Plugin = (*Plugin)(nil)

type Plugin struct{}

func New() spi.Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string {
	return Name
}

func (p *Plugin) BuildChatModel(ctx context.Context, modelID string, cfg config.ProviderConfig, params *spi.Params) (model.BaseChatModel, error) {
	conf := &einoOllama.ChatModelConfig{
		BaseURL: defaultBaseURL,
		Model:   modelID,
		Options: &einoOllama.Options{},
	}

	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}

	applyParams(conf, params)

	return einoOllama.NewChatModel(ctx, conf)
}

func applyParams(conf *einoOllama.ChatModelConfig, params *spi.Params) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		conf.Options.Temperature = *params.Temperature
	}
	if params.TopP != nil {
		conf.Options.TopP = *params.TopP
	}
	if params.FrequencyPenalty != nil {
		conf.Options.FrequencyPenalty = *params.FrequencyPenalty
	}
	if params.PresencePenalty != nil {
		conf.Options.PresencePenalty = *params.PresencePenalty
	}
}
