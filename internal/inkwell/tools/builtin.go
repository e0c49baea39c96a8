package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Limits for the fetch_url builtin.
const (
	fetchTimeout  = 30 * time.Second
	fetchMaxBytes = 1 << 20
)

// RegisterBuiltins installs the builtin tool set into the registry. Every
// artifact-touching tool resolves its run scope from the invocation
// context, so the same registry serves concurrent runs.
func RegisterBuiltins(r *Registry) {
	r.MustRegister(writeFileTool())
	r.MustRegister(readFileTool())
	r.MustRegister(listArtifactsTool())
	r.MustRegister(fetchURLTool())
	r.MustRegister(currentTimeTool())
}

func writeFileTool() ToolDefinition {
	return ToolDefinition{
		Name:        "write_file",
		Description: "Write a file into the current run's artifact space. Replaces the file wholesale if it already exists.",
		Parameters: []ParameterDef{
			{Name: "name", Type: "string", Description: "File name, relative to the run's artifact directory", Required: true},
			{Name: "content", Type: "string", Description: "Full file content", Required: true},
			{Name: "description", Type: "string", Description: "One-line description stored in the artifact metadata"},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			rc, err := RunFromContext(ctx)
			if err != nil {
				return nil, err
			}
			name := stringParam(params, "name")
			content := stringParam(params, "content")
			desc := stringParam(params, "description")
			if desc == "" {
				desc = "file produced by write_file"
			}

			art, err := rc.Artifacts.WriteArtifact(rc.RunID, name, desc, content)
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("wrote %s (%d bytes)", art.Name, art.Meta.Size), nil
		},
	}
}

func readFileTool() ToolDefinition {
	return ToolDefinition{
		Name:        "read_file",
		Description: "Read a file from the current run's artifact space.",
		Parameters: []ParameterDef{
			{Name: "name", Type: "string", Description: "File name, relative to the run's artifact directory", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			rc, err := RunFromContext(ctx)
			if err != nil {
				return nil, err
			}
			art, err := rc.Artifacts.ReadArtifact(rc.RunID, stringParam(params, "name"))
			if err != nil {
				return nil, err
			}
			return art.Content, nil
		},
	}
}

func listArtifactsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "list_artifacts",
		Description: "List the files in the current run's artifact space with their descriptions.",
		Handler: func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
			rc, err := RunFromContext(ctx)
			if err != nil {
				return nil, err
			}
			arts, err := rc.Artifacts.ListArtifacts(rc.RunID)
			if err != nil {
				return nil, err
			}

			type item struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Size        int64  `json:"size"`
			}
			items := make([]item, 0, len(arts))
			for _, a := range arts {
				items = append(items, item{Name: a.Name, Description: a.Meta.Description, Size: a.Meta.Size})
			}
			return items, nil
		},
	}
}

func fetchURLTool() ToolDefinition {
	return ToolDefinition{
		Name:        "fetch_url",
		Description: "Fetch a URL with HTTP GET and return the response body as text (truncated at 1 MiB).",
		Parameters: []ParameterDef{
			{Name: "url", Type: "string", Description: "Absolute http(s) URL", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			url := stringParam(params, "url")

			reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()
			req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
			if err != nil {
				return nil, fmt.Errorf("build request: %w", err)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return nil, fmt.Errorf("fetch %q: %w", url, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 {
				return nil, fmt.Errorf("fetch %q: status %s", url, resp.Status)
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, fetchMaxBytes))
			if err != nil {
				return nil, fmt.Errorf("read body of %q: %w", url, err)
			}
			return string(body), nil
		},
	}
}

func currentTimeTool() ToolDefinition {
	return ToolDefinition{
		Name:        "current_time",
		Description: "Return the current time in RFC 3339 format.",
		Handler: func(_ context.Context, _ map[string]interface{}) (interface{}, error) {
			return time.Now().Format(time.RFC3339), nil
		},
	}
}

func stringParam(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}
