// Package cli implements the qualgate command surface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qualgate/qualgate/internal/qualgate/config"
)

const version = "0.3.0"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "qualgate",
	Short: "Java code-quality pipeline: analyze, score, publish",
	Long: `qualgate runs Checkstyle and SpotBugs over a Java codebase, aggregates
their reports into quality metrics, renders an HTML report, publishes it to
a static-pages repository, and submits the score to a scoring service.

A qualgate.yml in the working directory (or --config) describes the source
tree, tool commands, report paths, and publish/submit targets.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelInfo
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: qualgate.yml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress to stderr")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(initCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
