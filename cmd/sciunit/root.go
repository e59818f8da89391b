package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sciunit",
		Short: "sciunit - CLI tool for validating model test suites",
		Long: `sciunit is a command-line tool for working with scientific model
validation suites.

It validates suite definition files against the suite schema and checks
their structure before they are used to judge models.`,
		Version:      version,
		SilenceUsage: true,
	}

	// --debug surfaces the slog.Debug lines from the judging paths.
	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newCheckCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
