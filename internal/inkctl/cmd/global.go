package cmd

import (
	"github.com/spf13/pflag"
)

var (
	globalConfigPath string
)

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&globalConfigPath,
		"config",
		"",
		"Config file path (default: $INKWELL_CONFIG, then ~/.inkwell/config.yaml)")
}
