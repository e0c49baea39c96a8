package entity

import (
	"time"
)

// ArtifactMeta is the structured preamble written ahead of every
// tool-produced file. It must be parseable independent of the file
// content and always carries the owning run id, so "which conversation
// produced this file" can be answered from the file alone.
type ArtifactMeta struct {
	// Description is the tool-supplied summary of the file.
	Description string `yaml:"description"`

	// RunID is the run that produced the artifact.
	RunID string `yaml:"run_id"`

	// CreatedAt is when the artifact (or its current version) was written.
	CreatedAt time.Time `yaml:"created_at"`

	// Size is the content length in bytes, excluding the preamble.
	Size int64 `yaml:"size"`
}

// Artifact is a tool-produced file under a run's namespace.
type Artifact struct {
	// Name is the file name relative to the run's artifact directory.
	Name string `json:"name"`

	Meta    ArtifactMeta `json:"meta"`
	Content string       `json:"content,omitempty"`
}
