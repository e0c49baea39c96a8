package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdutil "github.com/inkwell-ai/inkwell/internal/inkctl/cmd/util"
)

func TestNewInkctlCommandTree(t *testing.T) {
	root := NewInkctlCommand(cmdutil.IOStreams{
		In:     strings.NewReader(""),
		Out:    &bytes.Buffer{},
		ErrOut: &bytes.Buffer{},
	})

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "get")

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)
}

func TestNewDefaultInkctlCommand(t *testing.T) {
	require.NotNil(t, NewDefaultInkctlCommand())
}
