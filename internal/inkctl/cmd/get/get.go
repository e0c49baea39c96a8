// Package get implements `inkctl get`, the read-only inspection
// commands for agents, tools, runs and artifacts.
package get

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"

	cmdutil "github.com/inkwell-ai/inkwell/internal/inkctl/cmd/util"
	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
)

const descWrapWidth = 60

var getExample = heredoc.Doc(`
	# List available agents
	inkctl get agents

	# Show one agent definition
	inkctl get agents reviewer

	# List registered tools
	inkctl get tools

	# List persisted runs
	inkctl get runs

	# Show a run's transcript
	inkctl get runs 3kTMd9aG

	# List a run's artifacts
	inkctl get artifacts 3kTMd9aG
`)

// NewCmdGet returns the `get` subcommand tree.
func NewCmdGet(f *cmdutil.Factory, streams cmdutil.IOStreams) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "get",
		Short:   "Display agents, tools, runs or artifacts",
		Example: getExample,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(newCmdGetAgents(f, streams))
	cmd.AddCommand(newCmdGetTools(f, streams))
	cmd.AddCommand(newCmdGetRuns(f, streams))
	cmd.AddCommand(newCmdGetArtifacts(f, streams))
	return cmd
}

func newCmdGetAgents(f *cmdutil.Factory, streams cmdutil.IOStreams) *cobra.Command {
	return &cobra.Command{
		Use:     "agents [NAME]",
		Aliases: []string{"agent"},
		Short:   "List agent definitions, or show one in detail",
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			parser, err := f.Parser()
			cmdutil.CheckErr(err)

			if len(args) == 1 {
				def, err := parser.Load(args[0])
				cmdutil.CheckErr(err)
				printAgent(streams, def)
				return
			}

			names, err := parser.List()
			cmdutil.CheckErr(err)

			table := uitable.New()
			table.AddRow("NAME", "MODEL", "TOOLS", "DESCRIPTION")
			for _, name := range names {
				def, err := parser.Load(name)
				if err != nil {
					table.AddRow(name, "-", "-", color.RedString("broken: %v", err))
					continue
				}
				table.AddRow(def.Name, def.Model, len(def.Tools),
					wordwrap.WrapString(def.Description, descWrapWidth))
			}
			fmt.Fprintln(streams.Out, table)
		},
	}
}

func printAgent(streams cmdutil.IOStreams, def *entity.AgentDefinition) {
	table := uitable.New()
	table.AddRow("Name:", def.Name)
	table.AddRow("Description:", wordwrap.WrapString(def.Description, descWrapWidth))
	table.AddRow("Model:", def.Model)
	if def.Temperature != nil {
		table.AddRow("Temperature:", fmt.Sprintf("%g", *def.Temperature))
	}
	if def.MaxTokens != nil {
		table.AddRow("Max tokens:", *def.MaxTokens)
	}
	if len(def.Tools) > 0 {
		table.AddRow("Tools:", def.Tools)
	}
	if len(def.MCPServers) > 0 {
		table.AddRow("MCP servers:", def.MCPServers)
	}
	if def.MaxToolRounds > 0 {
		table.AddRow("Max tool rounds:", def.MaxToolRounds)
	}
	fmt.Fprintln(streams.Out, table)
}

func newCmdGetTools(f *cmdutil.Factory, streams cmdutil.IOStreams) *cobra.Command {
	return &cobra.Command{
		Use:     "tools",
		Aliases: []string{"tool"},
		Short:   "List registered tools",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			table := uitable.New()
			table.AddRow("NAME", "PARAMETERS", "DESCRIPTION")
			for _, def := range f.Registry().All() {
				params := make([]string, 0, len(def.Parameters))
				for _, p := range def.Parameters {
					if p.Required {
						params = append(params, p.Name+"*")
					} else {
						params = append(params, p.Name)
					}
				}
				table.AddRow(def.Name, params, wordwrap.WrapString(def.Description, descWrapWidth))
			}
			fmt.Fprintln(streams.Out, table)
		},
	}
}

func newCmdGetRuns(f *cmdutil.Factory, streams cmdutil.IOStreams) *cobra.Command {
	return &cobra.Command{
		Use:     "runs [ID]",
		Aliases: []string{"run"},
		Short:   "List persisted runs, or show one transcript",
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runs, err := f.RunStore()
			cmdutil.CheckErr(err)

			if len(args) == 1 {
				run, err := runs.Load(args[0])
				cmdutil.CheckErr(err)
				printTranscript(streams, run)
				return
			}

			all, err := runs.List()
			cmdutil.CheckErr(err)

			table := uitable.New()
			table.AddRow("ID", "AGENT", "TURNS", "TOKENS", "UPDATED")
			for _, run := range all {
				table.AddRow(run.ID, run.Agent, len(run.Turns), run.Usage.TotalTokens,
					run.UpdatedAt.Format(time.DateTime))
			}
			fmt.Fprintln(streams.Out, table)
		},
	}
}

func printTranscript(streams cmdutil.IOStreams, run *entity.ConversationRun) {
	fmt.Fprintf(streams.Out, "%s %s  agent=%s  requests=%d  tokens=%d\n\n",
		color.CyanString("run"), run.ID, run.Agent, run.Usage.Requests, run.Usage.TotalTokens)

	for _, turn := range run.Turns {
		label := string(turn.Role)
		switch turn.Role {
		case entity.RoleUser:
			label = color.GreenString(label)
		case entity.RoleAssistant:
			label = color.CyanString(label)
		case entity.RoleTool:
			label = color.YellowString("%s(%s)", label, turn.Name)
		}
		fmt.Fprintf(streams.Out, "%s %s\n", label+":", turn.Content)
		for _, tc := range turn.ToolCalls {
			fmt.Fprintf(streams.Out, "  %s %s %s\n", color.YellowString("call"), tc.Name, tc.Arguments)
		}
	}
}

func newCmdGetArtifacts(f *cmdutil.Factory, streams cmdutil.IOStreams) *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts RUN_ID [NAME]",
		Short: "List a run's artifacts, or print one",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			artifacts, err := f.Artifacts()
			cmdutil.CheckErr(err)

			if len(args) == 2 {
				art, err := artifacts.ReadArtifact(args[0], args[1])
				cmdutil.CheckErr(err)
				fmt.Fprint(streams.Out, art.Content)
				return
			}

			arts, err := artifacts.ListArtifacts(args[0])
			cmdutil.CheckErr(err)

			table := uitable.New()
			table.AddRow("NAME", "SIZE", "CREATED", "DESCRIPTION")
			for _, a := range arts {
				table.AddRow(a.Name, a.Meta.Size, a.Meta.CreatedAt.Format(time.DateTime),
					wordwrap.WrapString(a.Meta.Description, descWrapWidth))
			}
			fmt.Fprintln(streams.Out, table)
		},
	}
}
