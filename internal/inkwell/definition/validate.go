package definition

import (
	"fmt"
	"strings"

	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
)

// Validate checks an AgentDefinition against its invariants. All
// violations are collected and returned together as ValidationErrors.
func Validate(def *entity.AgentDefinition, tools ToolSet) error {
	var errs []error

	if strings.TrimSpace(def.Name) == "" {
		errs = append(errs, &FieldError{Field: "name", Message: "required field is missing"})
	}
	if strings.TrimSpace(def.Description) == "" {
		errs = append(errs, &FieldError{Field: "description", Message: "required field is missing"})
	}

	if _, modelID := entity.SplitModelRef(def.Model); modelID == "" {
		errs = append(errs, &FieldError{
			Field:   "model",
			Message: fmt.Sprintf("model ref %q has no model id", def.Model),
		})
	}

	errs = append(errs, validateParams(def)...)
	errs = append(errs, validateTools(def, tools)...)

	for _, srv := range def.MCPServers {
		if strings.TrimSpace(srv) == "" {
			errs = append(errs, &FieldError{Field: "mcp_servers", Message: "server name must not be empty"})
		}
	}

	if def.MaxToolRounds < 0 {
		errs = append(errs, &FieldError{
			Field:   "max_tool_rounds",
			Message: fmt.Sprintf("must be >= 0, got %d", def.MaxToolRounds),
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationErrors{Agent: def.Name, Errors: errs}
}

func validateParams(def *entity.AgentDefinition) []error {
	var errs []error

	if def.Temperature != nil && (*def.Temperature < 0 || *def.Temperature > 2) {
		errs = append(errs, &FieldError{
			Field:   "temperature",
			Message: fmt.Sprintf("must be within [0, 2], got %g", *def.Temperature),
		})
	}
	if def.TopP != nil && (*def.TopP <= 0 || *def.TopP > 1) {
		errs = append(errs, &FieldError{
			Field:   "top_p",
			Message: fmt.Sprintf("must be within (0, 1], got %g", *def.TopP),
		})
	}
	if def.MaxTokens != nil && *def.MaxTokens <= 0 {
		errs = append(errs, &FieldError{
			Field:   "max_tokens",
			Message: fmt.Sprintf("must be > 0, got %d", *def.MaxTokens),
		})
	}
	if def.FrequencyPenalty != nil && (*def.FrequencyPenalty < -2 || *def.FrequencyPenalty > 2) {
		errs = append(errs, &FieldError{
			Field:   "frequency_penalty",
			Message: fmt.Sprintf("must be within [-2, 2], got %g", *def.FrequencyPenalty),
		})
	}
	if def.PresencePenalty != nil && (*def.PresencePenalty < -2 || *def.PresencePenalty > 2) {
		errs = append(errs, &FieldError{
			Field:   "presence_penalty",
			Message: fmt.Sprintf("must be within [-2, 2], got %g", *def.PresencePenalty),
		})
	}

	return errs
}

// validateTools fails fast on unknown or duplicate tool names, naming the
// offending tool and listing valid alternatives.
func validateTools(def *entity.AgentDefinition, tools ToolSet) []error {
	var errs []error

	seen := make(map[string]struct{}, len(def.Tools))
	for _, name := range def.Tools {
		if _, dup := seen[name]; dup {
			errs = append(errs, &FieldError{
				Field:   "tools",
				Message: fmt.Sprintf("tool %q is declared more than once", name),
			})
			continue
		}
		seen[name] = struct{}{}

		if tools == nil || tools.Has(name) {
			continue
		}

		msg := fmt.Sprintf("unknown tool %q", name)
		if available := tools.Names(); len(available) > 0 {
			if s := Suggest(name, available); len(s) > 0 {
				msg += fmt.Sprintf(" (did you mean %q?)", s[0])
			}
			msg += fmt.Sprintf("; valid tools: %s", strings.Join(available, ", "))
		}
		errs = append(errs, &ResolutionError{Tool: name, Message: msg})
	}

	return errs
}
