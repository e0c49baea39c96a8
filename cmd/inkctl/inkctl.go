package main

import (
	"os"

	"github.com/inkwell-ai/inkwell/internal/inkctl/cmd"
)

func main() {
	command := cmd.NewDefaultInkctlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
