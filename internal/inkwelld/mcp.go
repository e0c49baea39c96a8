package inkwelld

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/inkwell-ai/inkwell/internal/inkwell/definition"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runtime"
	"github.com/inkwell-ai/inkwell/internal/inkwell/tools"
	"github.com/inkwell-ai/inkwell/pkg/utils/json"
)

const (
	mcpServerName    = "inkwell"
	mcpServerVersion = "0.1.0"
)

// newMCPServer exposes the dispatcher over the Model Context Protocol,
// so MCP-capable clients can invoke agents as tools.
func newMCPServer(dispatcher *runtime.Dispatcher, parser *definition.Parser, registry *tools.Registry) *server.MCPServer {
	s := server.NewMCPServer(mcpServerName, mcpServerVersion,
		server.WithToolCapabilities(false),
	)

	invokeTool := mcp.NewTool("invoke_agent",
		mcp.WithDescription("Invoke a named agent with a message. Returns the agent's reply and the run id for follow-ups."),
		mcp.WithString("agent", mcp.Required(), mcp.Description("Agent definition name")),
		mcp.WithString("message", mcp.Required(), mcp.Description("User message for the agent")),
		mcp.WithString("run_id", mcp.Description("Existing run id to continue; omit to start a new run")),
		mcp.WithObject("files", mcp.Description("File contents to inject into the prompt context, keyed by file name")),
	)
	s.AddTool(invokeTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agent, err := req.RequireString("agent")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := dispatcher.Dispatch(ctx, runtime.Request{
			Agent:   agent,
			Message: message,
			Files:   filesFromArgs(req.GetArguments()),
			RunID:   req.GetString("run_id", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", runtime.CategoryOf(err), err)), nil
		}

		data, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	listAgentsTool := mcp.NewTool("list_agents",
		mcp.WithDescription("List the available agent definitions with their descriptions."),
	)
	s.AddTool(listAgentsTool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := parser.List()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sb strings.Builder
		for _, name := range names {
			def, err := parser.Load(name)
			if err != nil {
				fmt.Fprintf(&sb, "%s\t(broken: %v)\n", name, err)
				continue
			}
			fmt.Fprintf(&sb, "%s\t%s\n", name, def.Description)
		}
		return mcp.NewToolResultText(sb.String()), nil
	})

	listToolsTool := mcp.NewTool("list_tools",
		mcp.WithDescription("List the tools agents may declare in their definitions."),
	)
	s.AddTool(listToolsTool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var sb strings.Builder
		for _, def := range registry.All() {
			fmt.Fprintf(&sb, "%s\t%s\n", def.Name, def.Description)
		}
		return mcp.NewToolResultText(sb.String()), nil
	})

	return s
}

// filesFromArgs extracts the optional files argument, an object of file
// name to content. Non-string values are dropped.
func filesFromArgs(args map[string]any) map[string]string {
	raw, ok := args["files"].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	files := make(map[string]string, len(raw))
	for name, content := range raw {
		if s, ok := content.(string); ok {
			files[name] = s
		}
	}
	if len(files) == 0 {
		return nil
	}
	return files
}

func serveMCPStdio(ctx context.Context, s *server.MCPServer) error {
	return server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
}
