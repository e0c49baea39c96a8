package entity

// AgentDefinition is a fully parsed and validated agent configuration:
// the YAML front-matter of an agent markdown file plus its prose body.
//
// Definitions are constructed once per invocation by the definition
// parser and are immutable afterwards. They are never persisted; the
// markdown file is the source of truth.
type AgentDefinition struct {
	// Name is the unique agent identifier, matching the source file name
	// (agents/<name>.md).
	Name string `yaml:"name"`

	// Description is a short human-readable purpose statement. Required.
	Description string `yaml:"description"`

	// Model is the "provider/model-id" binding, e.g. "openai/gpt-4o".
	Model string `yaml:"model,omitempty"`

	// Generation parameters. Nil means "inherit": global config value if
	// set, provider default otherwise.
	Temperature      *float64 `yaml:"temperature,omitempty"`
	MaxTokens        *int     `yaml:"max_tokens,omitempty"`
	TopP             *float64 `yaml:"top_p,omitempty"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `yaml:"presence_penalty,omitempty"`

	// Tools lists tool names this agent may call. Order-irrelevant,
	// duplicates rejected, every name must resolve at load time.
	Tools []string `yaml:"tools,omitempty"`

	// MCPServers lists external integration server names the agent
	// declares. Validated for shape only; connecting is the server
	// process's concern.
	MCPServers []string `yaml:"mcp_servers,omitempty"`

	// MaxToolRounds caps model-initiated tool-call rounds per invocation.
	// 0 means use the global default.
	MaxToolRounds int `yaml:"max_tool_rounds,omitempty"`

	// PromptBody is the raw, pre-render prose below the front-matter.
	PromptBody string `yaml:"-"`
}

// Provider splits the model binding and returns the provider part, or ""
// when no model is set.
func (d *AgentDefinition) Provider() string {
	p, _ := SplitModelRef(d.Model)
	return p
}

// ModelID splits the model binding and returns the model part.
func (d *AgentDefinition) ModelID() string {
	_, m := SplitModelRef(d.Model)
	return m
}

// EffectiveMaxToolRounds returns the per-definition ceiling, falling back
// to defaultMax when unset.
func (d *AgentDefinition) EffectiveMaxToolRounds(defaultMax int) int {
	if d.MaxToolRounds > 0 {
		return d.MaxToolRounds
	}
	return defaultMax
}

// SplitModelRef splits "provider/model-id" into its parts. A ref without
// a slash is treated as a bare model id with no provider.
func SplitModelRef(ref string) (provider, model string) {
	for i := 0; i < len(ref); i++ {
		if ref[i] == '/' {
			return ref[:i], ref[i+1:]
		}
	}
	return "", ref
}
