package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
)

var testClock = func() time.Time {
	return time.Date(2026, 8, 31, 14, 30, 5, 0, time.UTC)
}

func writeInclude(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name+".md")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRenderBuiltinVariables(t *testing.T) {
	r := NewRenderer(t.TempDir(), testClock)

	out, err := r.Render("Date {{ today }} at {{ time }} ({{ now }})", nil)
	require.NoError(t, err)
	assert.Equal(t, "Date 2026-08-31 at 14:30:05 (2026-08-31T14:30:05Z)", out)
}

func TestRenderFreshClockPerRender(t *testing.T) {
	calls := 0
	r := NewRenderer(t.TempDir(), func() time.Time {
		calls++
		return time.Date(2026, 8, 31, 0, 0, calls, 0, time.UTC)
	})

	first, err := r.Render("{{ time }}", nil)
	require.NoError(t, err)
	second, err := r.Render("{{ time }}", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestRenderCallerContextShadowsBuiltins(t *testing.T) {
	r := NewRenderer(t.TempDir(), testClock)

	out, err := r.Render("{{ today }} for {{ agent_name }}", map[string]interface{}{
		"today":      "someday",
		"agent_name": "reviewer",
	})
	require.NoError(t, err)
	assert.Equal(t, "someday for reviewer", out)
}

func TestRenderConditional(t *testing.T) {
	r := NewRenderer(t.TempDir(), testClock)

	out, err := r.Render("{% if files %}has files{% else %}no files{% endif %}",
		map[string]interface{}{"files": map[string]string{"a.go": "package a"}})
	require.NoError(t, err)
	assert.Equal(t, "has files", out)
}

func TestRenderFileContents(t *testing.T) {
	r := NewRenderer(t.TempDir(), testClock)
	files := map[string]string{"a.txt": "alpha contents"}

	out, err := r.Render(`{{ files["a.txt"] }}`, map[string]interface{}{"files": files})
	require.NoError(t, err)
	assert.Equal(t, "alpha contents", out)

	out, err = r.Render("{% for path, content in files %}{{ path }}: {{ content }}{% endfor %}",
		map[string]interface{}{"files": files})
	require.NoError(t, err)
	assert.Equal(t, "a.txt: alpha contents", out)
}

func TestRenderExpandsIncludes(t *testing.T) {
	dir := t.TempDir()
	writeInclude(t, dir, "style", "Be {{ tone }}.")
	r := NewRenderer(dir, testClock)

	out, err := r.Render("Intro.\n{{> style }}\nOutro.", map[string]interface{}{"tone": "terse"})
	require.NoError(t, err)
	assert.Equal(t, "Intro.\nBe terse.\nOutro.", out)
}

func TestRenderNestedIncludes(t *testing.T) {
	dir := t.TempDir()
	writeInclude(t, dir, "outer", "outer({{> inner }})")
	writeInclude(t, dir, "inner", "inner")
	r := NewRenderer(dir, testClock)

	out, err := r.Render("{{> outer }}", nil)
	require.NoError(t, err)
	assert.Equal(t, "outer(inner)", out)
}

func TestRenderIncludeCycleHitsDepthLimit(t *testing.T) {
	dir := t.TempDir()
	writeInclude(t, dir, "a", "{{> b }}")
	writeInclude(t, dir, "b", "{{> a }}")
	r := NewRenderer(dir, testClock)

	_, err := r.Render("{{> a }}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting exceeds")
}

func TestRenderMissingInclude(t *testing.T) {
	r := NewRenderer(t.TempDir(), testClock)

	_, err := r.Render("{{> nowhere }}", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrIncludeNotFound))
}

func TestRenderIncludeCannotEscapeDirectory(t *testing.T) {
	r := NewRenderer(t.TempDir(), testClock)

	_, err := r.Render("{{> ../../etc/passwd }}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes")
}

func TestRenderSyntaxError(t *testing.T) {
	r := NewRenderer(t.TempDir(), testClock)

	_, err := r.Render("{% if broken %}", nil)
	require.Error(t, err)
}
