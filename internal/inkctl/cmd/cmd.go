// Package cmd assembles the inkctl command tree.
package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/inkwell-ai/inkwell/internal/inkctl/cmd/get"
	"github.com/inkwell-ai/inkwell/internal/inkctl/cmd/run"
	cmdutil "github.com/inkwell-ai/inkwell/internal/inkctl/cmd/util"
)

// NewDefaultInkctlCommand creates the `inkctl` command bound to the
// process stdio.
func NewDefaultInkctlCommand() *cobra.Command {
	return NewInkctlCommand(cmdutil.NewStdIOStreams())
}

// NewInkctlCommand creates the `inkctl` root command.
func NewInkctlCommand(streams cmdutil.IOStreams) *cobra.Command {
	cmds := &cobra.Command{
		Use:   "inkctl",
		Short: "inkctl runs and inspects markdown-defined agents",
		Long: heredoc.Doc(`
			inkctl is the command line client for inkwell agents.

			Agents are defined as markdown files with YAML front-matter in
			the agents directory. inkctl invokes them locally; run inkwelld
			for the HTTP and MCP server endpoints.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	addGlobalFlags(cmds.PersistentFlags())

	f := cmdutil.NewFactory(&globalConfigPath)

	cmds.AddCommand(run.NewCmdRun(f, streams))
	cmds.AddCommand(get.NewCmdGet(f, streams))

	return cmds
}
