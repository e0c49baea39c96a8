// Package util carries the shared plumbing of inkctl subcommands: the
// component factory, IO streams and error handling.
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/inkwell-ai/inkwell/internal/inkwell/runtime"
)

// IOStreams bundles the command's input and output writers so tests can
// substitute buffers.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewStdIOStreams returns streams bound to the process's stdio.
func NewStdIOStreams() IOStreams {
	return IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// CheckErr prints a categorized error and exits non-zero. A nil error
// is a no-op.
func CheckErr(err error) {
	if err == nil {
		return
	}
	cat := runtime.CategoryOf(err)
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("Error (%s):", cat), err)
	os.Exit(1)
}
