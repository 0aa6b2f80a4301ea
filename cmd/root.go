// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-api",
	Short: "Serves portfolio content and GitHub statistics as JSON.",
	Long: `portfolio-api aggregates a spreadsheet-backed content store and the GitHub
statistics API into the JSON consumed by the portfolio front end.
Run "serve" for the HTTP API, or "content" and "stats" for one-off JSON output.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
}

// newLogger discards all logs unless --verbose is set. With alwaysInfo the
// logger writes info and above regardless.
func newLogger(cmd *cobra.Command, alwaysInfo bool) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	switch {
	case verbose:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case alwaysInfo:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
