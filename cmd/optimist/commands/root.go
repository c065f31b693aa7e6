package commands

import (
	"github.com/spf13/cobra"

	"github.com/optimist-light/optimist/libs/log"
)

var (
	logLevel  = log.LogLevelInfo
	logFormat = log.LogFormatPlain

	logger log.Logger
)

// RootCmd is the root command for the optimist light client. Subcommands
// inherit its logging flags.
var RootCmd = &cobra.Command{
	Use:   "optimist",
	Short: "Optimistic sync-committee light client",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := log.NewDefaultLogger(logFormat, logLevel)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel,
		"log level (debug | info | error)")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logFormat,
		"log format (plain | json)")
}
