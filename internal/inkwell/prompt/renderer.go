// Package prompt renders agent prompt bodies: named includes are expanded
// from the includes directory, then the result is evaluated as a Jinja
// template with built-in and caller-supplied context values.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nikolalohinski/gonja"

	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
)

// maxIncludeDepth bounds recursive include expansion.
const maxIncludeDepth = 8

// includePattern matches {{> fragment_name }} directives. Fragment names
// map to <includes_dir>/<name>.md.
var includePattern = regexp.MustCompile(`\{\{>\s*([A-Za-z0-9_\-./]+)\s*\}\}`)

// Clock supplies the current time. It is an explicit dependency so tests
// can pin the built-in timestamp variables.
type Clock func() time.Time

// Renderer expands includes and evaluates Jinja directives.
type Renderer struct {
	includesDir string
	clock       Clock
}

// NewRenderer creates a Renderer reading includes from includesDir. A nil
// clock defaults to time.Now.
func NewRenderer(includesDir string, clock Clock) *Renderer {
	if clock == nil {
		clock = time.Now
	}
	return &Renderer{includesDir: includesDir, clock: clock}
}

// Render produces the final prompt string. The context map is merged over
// the built-in variables, so callers may shadow them. Files injected by
// the caller are exposed under "files" (path → content).
func (r *Renderer) Render(body string, context map[string]interface{}) (string, error) {
	expanded, err := r.expandIncludes(body, 0)
	if err != nil {
		return "", err
	}

	ctx := r.builtins()
	for k, v := range context {
		ctx[k] = v
	}

	tpl, err := gonja.FromString(expanded)
	if err != nil {
		return "", fmt.Errorf("template syntax error: %w", err)
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return out, nil
}

// builtins are computed fresh on every render so timestamps reflect the
// moment of the call, not of renderer construction.
func (r *Renderer) builtins() map[string]interface{} {
	now := r.clock()
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()

	return map[string]interface{}{
		"now":      now.Format(time.RFC3339),
		"now_unix": now.Unix(),
		"today":    now.Format("2006-01-02"),
		"time":     now.Format("15:04:05"),
		"cwd":      cwd,
		"home":     home,
	}
}

func (r *Renderer) expandIncludes(body string, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("include nesting exceeds %d levels", maxIncludeDepth)
	}

	var firstErr error
	out := includePattern.ReplaceAllStringFunc(body, func(directive string) string {
		if firstErr != nil {
			return directive
		}
		name := includePattern.FindStringSubmatch(directive)[1]

		content, err := r.readInclude(name)
		if err != nil {
			firstErr = err
			return directive
		}

		nested, err := r.expandIncludes(content, depth+1)
		if err != nil {
			firstErr = err
			return directive
		}
		return nested
	})

	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func (r *Renderer) readInclude(name string) (string, error) {
	// Includes resolve strictly under the includes directory.
	clean := filepath.Clean(name)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("include %q escapes the includes directory", name)
	}

	path := filepath.Join(r.includesDir, clean+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("include %q (%s): %w", name, path, errno.ErrIncludeNotFound)
		}
		return "", fmt.Errorf("read include %q: %w", name, err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
