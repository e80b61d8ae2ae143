// Command trendpulse runs the daily GitHub trend analysis pipeline and its
// supporting tooling.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/logger"
)

var (
	reposFile string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "trendpulse",
	Short: "Daily GitHub trend signal analysis",
	Long: `TrendPulse tracks a set of GitHub repositories, extracts trend signals
from their pull requests, commits, and releases with LLM analysis, and
publishes a daily markdown report. A persistent signal history keeps
reports free of signals already covered on previous days.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		opt := logger.FromEnv()
		if logLevel != "" {
			opt.Level = logLevel
		}
		if logFormat != "" {
			opt.Format = logFormat
		}
		logger.Init(opt)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&reposFile, "repos-file", "config/repos.yml", "YAML file holding the tracked repository list")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
