package main

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/go-theft-auto/triptych"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "reader",
	Short: "Page through EPUB books one chapter at a time",
	Long: `reader opens an EPUB book and lays its chapters out side by side on a
horizontally paging surface. At most three chapters are kept in memory:
the one being read and its two neighbours.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.triptych/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		triptych.SetVerbose(verbose)
	}

	rootCmd.AddCommand(openCmd, spineCmd, configCmd)
}

// newLogger returns a stderr logger tagged with a fresh session id whose
// level follows triptych.SetVerbose.
func newLogger() *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: triptych.LogLevel()})
	return slog.New(h).With("session", uuid.NewString())
}
