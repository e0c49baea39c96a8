package runstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
)

const artifactDelim = "---"

// ArtifactStore manages tool-produced files under per-run directories
// (<root>/<run-id>/<name>). Every file starts with a YAML front-matter
// preamble (description, run id, creation time, size) so ownership can
// be recovered from the file alone. Files are replaced wholesale, never
// mutated in place.
type ArtifactStore struct {
	root string
}

// NewArtifactStore creates an ArtifactStore rooted at root.
func NewArtifactStore(root string) *ArtifactStore {
	return &ArtifactStore{root: root}
}

// WriteArtifact writes (or replaces) an artifact and returns its record.
func (a *ArtifactStore) WriteArtifact(runID, name, description, content string) (*entity.Artifact, error) {
	if runID == "" {
		return nil, fmt.Errorf("artifact %q: run id must not be empty", name)
	}
	path, err := a.artifactPath(runID, name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	meta := entity.ArtifactMeta{
		Description: description,
		RunID:       runID,
		CreatedAt:   time.Now().UTC(),
		Size:        int64(len(content)),
	}
	preamble, err := yaml.Marshal(&meta)
	if err != nil {
		return nil, fmt.Errorf("encode artifact metadata: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(artifactDelim + "\n")
	sb.Write(preamble)
	sb.WriteString(artifactDelim + "\n")
	sb.WriteString(content)

	// Write to a temp file and rename so readers never observe a
	// half-written artifact.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return nil, fmt.Errorf("write artifact %q: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, fmt.Errorf("publish artifact %q: %w", name, err)
	}

	return &entity.Artifact{Name: name, Meta: meta, Content: content}, nil
}

// ReadArtifact reads an artifact back, splitting preamble from content.
func (a *ArtifactStore) ReadArtifact(runID, name string) (*entity.Artifact, error) {
	path, err := a.artifactPath(runID, name)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact %q of run %q: %w", name, runID, errno.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("read artifact %q: %w", name, err)
	}

	meta, content, err := parseArtifact(raw)
	if err != nil {
		return nil, fmt.Errorf("artifact %q of run %q: %w", name, runID, err)
	}
	return &entity.Artifact{Name: name, Meta: *meta, Content: content}, nil
}

// ListArtifacts returns the metadata of every artifact under a run's
// namespace, sorted by name. Content is not loaded.
func (a *ArtifactStore) ListArtifacts(runID string) ([]*entity.Artifact, error) {
	dir := filepath.Join(a.root, runID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list artifacts of run %q: %w", runID, err)
	}

	var arts []*entity.Artifact
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read artifact %q: %w", e.Name(), err)
		}
		meta, _, err := parseArtifact(raw)
		if err != nil {
			return nil, fmt.Errorf("artifact %q of run %q: %w", e.Name(), runID, err)
		}
		arts = append(arts, &entity.Artifact{Name: e.Name(), Meta: *meta})
	}
	sort.Slice(arts, func(i, j int) bool { return arts[i].Name < arts[j].Name })
	return arts, nil
}

func (a *ArtifactStore) artifactPath(runID, name string) (string, error) {
	clean := filepath.Clean(name)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("artifact name %q escapes the run namespace", name)
	}
	return filepath.Join(a.root, runID, clean), nil
}

// parseArtifact splits the metadata preamble from the content. The
// preamble is parseable without understanding the content that follows.
func parseArtifact(raw []byte) (*entity.ArtifactMeta, string, error) {
	text := string(raw)
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != artifactDelim {
		return nil, "", fmt.Errorf("missing metadata preamble")
	}

	var matter strings.Builder
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == artifactDelim {
			meta := &entity.ArtifactMeta{}
			if err := yaml.Unmarshal([]byte(matter.String()), meta); err != nil {
				return nil, "", fmt.Errorf("malformed metadata preamble: %w", err)
			}
			if meta.RunID == "" {
				return nil, "", fmt.Errorf("metadata preamble missing run_id")
			}
			return meta, strings.Join(lines[i+1:], ""), nil
		}
		matter.WriteString(lines[i])
	}
	return nil, "", fmt.Errorf("unterminated metadata preamble")
}
