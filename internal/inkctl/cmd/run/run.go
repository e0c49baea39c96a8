// Package run implements `inkctl run`, the local invocation command.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdutil "github.com/inkwell-ai/inkwell/internal/inkctl/cmd/util"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runtime"
	"github.com/inkwell-ai/inkwell/pkg/utils/json"
)

var runExample = heredoc.Doc(`
	# Invoke an agent with a message
	inkctl run reviewer "Review the attached diff"

	# Continue an existing run
	inkctl run reviewer --run-id 3kTMd9aG "What about error handling?"

	# Inject file contents into the prompt context
	inkctl run reviewer -f main.go -f main_test.go "Review these"

	# Pipe the message on stdin and get machine-readable output
	git diff | inkctl run reviewer --json
`)

// Options holds the flags and arguments of the run command.
type Options struct {
	Agent   string
	Message string
	RunID   string
	Files   []string
	JSON    bool

	factory *cmdutil.Factory
	streams cmdutil.IOStreams
}

// NewCmdRun returns the `run` subcommand.
func NewCmdRun(f *cmdutil.Factory, streams cmdutil.IOStreams) *cobra.Command {
	o := &Options{factory: f, streams: streams}

	cmd := &cobra.Command{
		Use:                   "run AGENT [MESSAGE]",
		DisableFlagsInUseLine: true,
		Short:                 "Invoke an agent and print its reply",
		Long: heredoc.Doc(`
			Invoke a named agent with a message and print the final reply.

			Without --run-id a new run is started and its id printed to
			stderr so the conversation can be continued later. The message
			is taken from the arguments, or from stdin when piped.
		`),
		Example: runExample,
		Args:    cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cmdutil.CheckErr(o.Complete(args))
			cmdutil.CheckErr(o.Run(cmd.Context()))
		},
	}

	cmd.Flags().StringVarP(&o.RunID, "run-id", "r", "", "Existing run id to continue")
	cmd.Flags().StringArrayVarP(&o.Files, "file", "f", nil, "File to inject into the prompt context (repeatable)")
	cmd.Flags().BoolVar(&o.JSON, "json", false, "Print the full result as JSON")

	return cmd
}

// Complete fills in the message from args or stdin.
func (o *Options) Complete(args []string) error {
	o.Agent = args[0]
	if len(args) > 1 {
		o.Message = strings.Join(args[1:], " ")
		return nil
	}

	if f, ok := o.streams.In.(*os.File); ok {
		if stat, err := f.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return fmt.Errorf("no message given and stdin is a terminal")
		}
	}
	data, err := io.ReadAll(o.streams.In)
	if err != nil {
		return fmt.Errorf("read message from stdin: %w", err)
	}
	o.Message = strings.TrimSpace(string(data))
	if o.Message == "" {
		return fmt.Errorf("no message given")
	}
	return nil
}

// Run executes the invocation.
func (o *Options) Run(ctx context.Context) error {
	files, err := readFiles(o.Files)
	if err != nil {
		return err
	}

	dispatcher, err := o.factory.Dispatcher()
	if err != nil {
		return err
	}

	result, err := dispatcher.Dispatch(ctx, runtime.Request{
		Agent:   o.Agent,
		Message: o.Message,
		Files:   files,
		RunID:   o.RunID,
	})
	if err != nil {
		if result != nil {
			fmt.Fprintf(o.streams.ErrOut, "%s partial turns persisted under run %s\n",
				color.YellowString("!"), result.RunID)
		}
		return err
	}

	if o.JSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(o.streams.Out, string(data))
		return nil
	}

	fmt.Fprintln(o.streams.Out, result.Output)
	for _, tc := range result.ToolCalls {
		mark := color.GreenString("✓")
		if tc.Failed {
			mark = color.RedString("✗")
		}
		fmt.Fprintf(o.streams.ErrOut, "%s %s\n", mark, tc.Name)
	}
	if result.NewRun {
		fmt.Fprintf(o.streams.ErrOut, "%s %s\n", color.CyanString("run:"), result.RunID)
	}
	return nil
}

func readFiles(paths []string) (map[string]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	files := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", p, err)
		}
		files[p] = string(data)
	}
	return files, nil
}
