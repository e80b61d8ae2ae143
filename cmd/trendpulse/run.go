package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily trend analysis pipeline",
	Long: `Collect activity, pull requests, and releases for the tracked
repositories, extract trend signals, deduplicate them against the signal
history, and write the daily markdown report.

Examples:
  trendpulse run                      # analyze today
  trendpulse run --date 2026-08-29    # reanalyze a specific day
  trendpulse run --output-dir /tmp/r  # write the report elsewhere`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		date := time.Now().UTC()
		if dateStr != "" {
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", dateStr)
			}
			// Analyze the day up to its end
			date = parsed.Add(24*time.Hour - time.Second)
		}

		settings, err := config.Load(reposFile)
		if err != nil {
			return err
		}
		if outputDir != "" {
			settings.OutputDir = outputDir
		}

		p, err := pipeline.New(settings)
		if err != nil {
			return err
		}
		defer p.Close()

		report, err := p.RunDaily(context.Background(), date)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Daily report for %s\n\n", green("✓"), cyan(report.Date))
		fmt.Printf("  Engineering signals: %d\n", len(report.EngineeringSignals))
		fmt.Printf("  Research signals:    %d\n", len(report.ResearchSignals))
		fmt.Printf("  Commit signals:      %d\n", len(report.CommitSignals))
		fmt.Printf("  Release signals:     %d\n", len(report.ReleaseSignals))
		fmt.Printf("  Breaking changes:    %d\n", len(report.BreakingChanges))
		fmt.Printf("  High impact:         %d\n", report.Stats.HighImpactSignals)
		fmt.Printf("\n  Report: %s/report-%s.md\n", settings.OutputDir, report.Date)
		return nil
	},
}

func init() {
	runCmd.Flags().String("date", "", "Day to analyze, YYYY-MM-DD (default today)")
	runCmd.Flags().String("output-dir", "", "Report output directory (overrides OUTPUT_DIR)")
	rootCmd.AddCommand(runCmd)
}
