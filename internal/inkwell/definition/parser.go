// Package definition loads agent definitions: markdown files whose YAML
// front-matter declares the agent and whose body is the raw prompt.
package definition

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
	"github.com/inkwell-ai/inkwell/pkg/logger"
)

const moduleName = "definition"

// ToolSet is the view of the tool registry the parser needs for
// validation: membership checks and the name list for suggestions.
type ToolSet interface {
	Has(name string) bool
	Names() []string
}

// Parser locates, parses and validates agent definitions, merging the
// three-tier defaults (definition > global config > hard-coded).
//
// Parsed definitions are cached by name; the cache is invalidated by
// Watch when the agents directory changes.
type Parser struct {
	cfg   *config.Config
	tools ToolSet

	mu    sync.RWMutex
	cache map[string]*entity.AgentDefinition
}

// NewParser creates a Parser over the configured agents directory.
func NewParser(cfg *config.Config, tools ToolSet) *Parser {
	return &Parser{
		cfg:   cfg,
		tools: tools,
		cache: make(map[string]*entity.AgentDefinition),
	}
}

// Load returns the validated definition for the given agent name.
func (p *Parser) Load(name string) (*entity.AgentDefinition, error) {
	if name == "" {
		return nil, &FieldError{Field: "name", Message: "agent name must not be empty"}
	}

	p.mu.RLock()
	cached, ok := p.cache[name]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(p.cfg.AgentsDir, name+".md")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, p.notFound(name)
		}
		return nil, fmt.Errorf("read agent definition %q: %w", path, err)
	}

	def, err := Parse(name, string(raw))
	if err != nil {
		return nil, err
	}

	applyDefaults(def, &p.cfg.Defaults)

	if err := Validate(def, p.tools); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[name] = def
	p.mu.Unlock()

	return def, nil
}

// List returns the names of all agent definition files, sorted.
func (p *Parser) List() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.AgentsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list agents dir %q: %w", p.cfg.AgentsDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}

// Invalidate drops a cached definition so the next Load re-reads disk.
// An empty name drops the whole cache.
func (p *Parser) Invalidate(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name == "" {
		p.cache = make(map[string]*entity.AgentDefinition)
		return
	}
	delete(p.cache, name)
}

// Watch invalidates cached definitions when their files change. It blocks
// until ctx is done; callers run it in a goroutine in server mode.
func (p *Parser) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create agents watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(p.cfg.AgentsDir); err != nil {
		return fmt.Errorf("watch agents dir %q: %w", p.cfg.AgentsDir, err)
	}
	logger.InfoX(moduleName, "watching %s for definition changes", p.cfg.AgentsDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(ev.Name), ".md")
			p.Invalidate(name)
			logger.DebugX(moduleName, "invalidated %q after %s", name, ev.Op)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnX(moduleName, "watch error: %v", err)
		}
	}
}

func (p *Parser) notFound(name string) error {
	available, _ := p.List()
	msg := fmt.Sprintf("agent %q: %v", name, errno.ErrAgentNotFound)
	if len(available) > 0 {
		if s := Suggest(name, available); len(s) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(s), ", "))
		}
		msg += fmt.Sprintf("; available agents: %s", strings.Join(available, ", "))
	}
	return &NotFoundError{Name: name, Message: msg}
}

// Parse splits front-matter from body and decodes the front-matter.
// It performs no validation or default merging.
func Parse(name, raw string) (*entity.AgentDefinition, error) {
	matter, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", name, err)
	}

	def := &entity.AgentDefinition{}
	if err := yaml.Unmarshal([]byte(matter), def); err != nil {
		return nil, &FieldError{
			Field:   "front-matter",
			Message: fmt.Sprintf("agent %q: malformed YAML front-matter: %v", name, err),
		}
	}

	if def.Name == "" {
		def.Name = name
	} else if def.Name != name {
		return nil, &FieldError{
			Field:   "name",
			Message: fmt.Sprintf("front-matter name %q does not match file name %q", def.Name, name),
		}
	}
	def.PromptBody = strings.TrimLeft(body, "\n")
	return def, nil
}

// splitFrontMatter splits a document of the form
//
//	---
//	key: value
//	---
//	prose body
//
// and returns the YAML block and the body.
func splitFrontMatter(raw string) (matter, body string, err error) {
	const delim = "---"

	trimmed := strings.TrimPrefix(raw, "\uFEFF")
	lines := strings.SplitAfter(trimmed, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != delim {
		return "", "", &FieldError{
			Field:   "front-matter",
			Message: "definition must start with a '---' front-matter block",
		}
	}

	var sb strings.Builder
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == delim {
			return sb.String(), strings.Join(lines[i+1:], ""), nil
		}
		sb.WriteString(lines[i])
	}
	return "", "", &FieldError{
		Field:   "front-matter",
		Message: "unterminated front-matter block: closing '---' not found",
	}
}

// applyDefaults merges the global config tier into unset optional fields.
// Hard-coded fallbacks live with their consumers (model in config,
// max_tool_rounds in the dispatcher).
func applyDefaults(def *entity.AgentDefinition, defaults *config.GenerationDefaults) {
	if def.Model == "" {
		def.Model = defaults.Model
	}
	if def.Temperature == nil {
		def.Temperature = defaults.Temperature
	}
	if def.MaxTokens == nil {
		def.MaxTokens = defaults.MaxTokens
	}
	if def.TopP == nil {
		def.TopP = defaults.TopP
	}
	if def.FrequencyPenalty == nil {
		def.FrequencyPenalty = defaults.FrequencyPenalty
	}
	if def.PresencePenalty == nil {
		def.PresencePenalty = defaults.PresencePenalty
	}
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}
