package runstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
)

func TestArtifactRoundTrip(t *testing.T) {
	root := t.TempDir()
	a := NewArtifactStore(root)

	written, err := a.WriteArtifact("run1234a", "report.md", "final report", "# Findings\n\nAll good.")
	require.NoError(t, err)
	assert.Equal(t, int64(len("# Findings\n\nAll good.")), written.Meta.Size)

	got, err := a.ReadArtifact("run1234a", "report.md")
	require.NoError(t, err)
	assert.Equal(t, "# Findings\n\nAll good.", got.Content)
	assert.Equal(t, "run1234a", got.Meta.RunID)
	assert.Equal(t, "final report", got.Meta.Description)
}

func TestArtifactFileCarriesParseablePreamble(t *testing.T) {
	root := t.TempDir()
	a := NewArtifactStore(root)

	_, err := a.WriteArtifact("run1234a", "out.txt", "d", "content")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(root, "run1234a", "out.txt"))
	require.NoError(t, err)

	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "---\n"))
	assert.Contains(t, text, "run_id: run1234a")
	assert.True(t, strings.HasSuffix(text, "---\ncontent"))
}

func TestArtifactContentMayContainDelimiterLines(t *testing.T) {
	a := NewArtifactStore(t.TempDir())

	content := "first\n---\nsecond"
	_, err := a.WriteArtifact("run1234a", "notes.md", "d", content)
	require.NoError(t, err)

	got, err := a.ReadArtifact("run1234a", "notes.md")
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
}

func TestArtifactReplaceIsWholesale(t *testing.T) {
	a := NewArtifactStore(t.TempDir())

	_, err := a.WriteArtifact("run1234a", "f.txt", "v1", "long original content")
	require.NoError(t, err)
	_, err = a.WriteArtifact("run1234a", "f.txt", "v2", "short")
	require.NoError(t, err)

	got, err := a.ReadArtifact("run1234a", "f.txt")
	require.NoError(t, err)
	assert.Equal(t, "short", got.Content)
	assert.Equal(t, "v2", got.Meta.Description)
}

func TestReadMissingArtifact(t *testing.T) {
	a := NewArtifactStore(t.TempDir())

	_, err := a.ReadArtifact("run1234a", "absent.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrArtifactNotFound))
}

func TestReadArtifactWithoutRunIDFails(t *testing.T) {
	root := t.TempDir()
	a := NewArtifactStore(root)

	dir := filepath.Join(root, "run1234a")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	raw := "---\ndescription: stray file\n---\ncontent"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte(raw), 0o644))

	_, err := a.ReadArtifact("run1234a", "stray.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run_id")
}

func TestListArtifacts(t *testing.T) {
	root := t.TempDir()
	a := NewArtifactStore(root)

	_, err := a.WriteArtifact("run1234a", "b.txt", "second", "bb")
	require.NoError(t, err)
	_, err = a.WriteArtifact("run1234a", "a.txt", "first", "aa")
	require.NoError(t, err)

	// Leftover temp files from interrupted writes are not artifacts.
	require.NoError(t, os.WriteFile(filepath.Join(root, "run1234a", "c.txt.tmp"), []byte("x"), 0o644))

	arts, err := a.ListArtifacts("run1234a")
	require.NoError(t, err)
	require.Len(t, arts, 2)
	assert.Equal(t, "a.txt", arts[0].Name)
	assert.Equal(t, "b.txt", arts[1].Name)
	assert.Empty(t, arts[0].Content, "listing should not load content")
}

func TestListArtifactsOfUnknownRunIsEmpty(t *testing.T) {
	a := NewArtifactStore(t.TempDir())

	arts, err := a.ListArtifacts("nothing1")
	require.NoError(t, err)
	assert.Empty(t, arts)
}

func TestArtifactNameCannotEscapeNamespace(t *testing.T) {
	a := NewArtifactStore(t.TempDir())

	for _, name := range []string{"../escape.txt", "/abs.txt", "."} {
		_, err := a.WriteArtifact("run1234a", name, "d", "x")
		assert.Error(t, err, name)
	}
}
