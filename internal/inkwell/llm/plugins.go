package llm

import (
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/claude"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/deepseek"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/ollama"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/openai"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/spi"
)

// NewInTreeRegistry returns a registry with all compiled-in providers.
func NewInTreeRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(openai.Name, func() spi.Plugin { return openai.New() })
	r.MustRegister(claude.Name, func() spi.Plugin { return claude.New() })
	r.MustRegister(deepseek.Name, func() spi.Plugin { return deepseek.New() })
	r.MustRegister(ollama.Name, func() spi.Plugin { return ollama.New() })
	return r
}
