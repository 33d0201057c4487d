package args

import (
	"github.com/spf13/cobra"
)

type GlobalArgs struct {
	ConfigPath  string
	LogLevel    string
	LogEncoding string
}

func ProcessArgs(a *GlobalArgs, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config-path", "", "Config file path, settings are read from the environment when empty")
	cmd.PersistentFlags().StringVarP(&a.LogLevel, "log-level", "l", "info", "Log level (debug, info, warn, error, fatal)")
	cmd.PersistentFlags().StringVar(&a.LogEncoding, "log-encoding", "console", "Log encoding (console, json)")
}
