package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwelld"
	"github.com/inkwell-ai/inkwell/pkg/logger"
)

func main() {
	var (
		cfgPath string
		addr    string
		mcpMode bool
	)

	cmd := &cobra.Command{
		Use:   "inkwelld",
		Short: "inkwelld serves markdown-defined agents over HTTP and MCP",
		Long: heredoc.Doc(`
			inkwelld is the inkwell server process. By default it serves the
			HTTP API; with --mcp it speaks the Model Context Protocol over
			stdio instead, for use as an MCP server in editor and agent hosts.
		`),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}

			app, err := inkwelld.NewApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if mcpMode {
				return app.RunMCP(ctx)
			}
			return app.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "",
		"Config file path (default: $INKWELL_CONFIG, then ~/.inkwell/config.yaml)")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().BoolVar(&mcpMode, "mcp", false, "Serve the Model Context Protocol on stdio instead of HTTP")

	if err := cmd.Execute(); err != nil {
		logger.Fatal("inkwelld: %v", err)
	}
}
