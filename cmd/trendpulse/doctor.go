package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/dedup"
	"github.com/trendpulse/trendpulse/internal/snapshot"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and environment health",
	Long: `Run health checks against the TrendPulse configuration.

This command checks:
- Required and recommended environment variables
- The tracked repository list
- Signal history readability
- Output directory and snapshot database writability

Exit codes:
  0 - All checks passed (warnings allowed)
  1 - One or more checks failed`,
	Run: func(cmd *cobra.Command, args []string) {
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running TrendPulse health checks...\n\n")
		failures := 0

		fmt.Printf("%s Environment\n", cyan("→"))
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			failures++
			fmt.Printf("  %s ANTHROPIC_API_KEY is not set\n", red("✗"))
		} else {
			fmt.Printf("  %s ANTHROPIC_API_KEY is set\n", green("✓"))
		}
		if os.Getenv("GITHUB_TOKEN") == "" {
			fmt.Printf("  %s GITHUB_TOKEN is not set (unauthenticated rate limits apply)\n", yellow("⚠"))
		} else {
			fmt.Printf("  %s GITHUB_TOKEN is set\n", green("✓"))
		}

		fmt.Printf("%s Configuration\n", cyan("→"))
		settings, err := config.Load(reposFile)
		if err != nil {
			failures++
			fmt.Printf("  %s settings invalid: %v\n", red("✗"), err)
			fmt.Printf("\n%s %d check(s) failed\n", red("✗"), failures)
			os.Exit(1)
		}
		fmt.Printf("  %s settings valid (%d repos, model %s)\n", green("✓"), len(settings.Repos), settings.AnthropicModel)

		fmt.Printf("%s Signal history\n", cyan("→"))
		store, err := dedup.NewHistoryStore(settings.HistoryPath)
		if err != nil {
			failures++
			fmt.Printf("  %s cannot open history at %s: %v\n", red("✗"), settings.HistoryPath, err)
		} else {
			entries := store.Load()
			recent := store.LoadRecent(settings.LookbackDays)
			fmt.Printf("  %s history readable (%d signals, %d within %d days)\n",
				green("✓"), len(entries), len(recent), settings.LookbackDays)
		}

		fmt.Printf("%s Output\n", cyan("→"))
		if err := os.MkdirAll(settings.OutputDir, 0o755); err != nil {
			failures++
			fmt.Printf("  %s cannot create output dir %s: %v\n", red("✗"), settings.OutputDir, err)
		} else {
			probe := filepath.Join(settings.OutputDir, ".doctor-probe")
			if err := os.WriteFile(probe, nil, 0o644); err != nil {
				failures++
				fmt.Printf("  %s output dir %s is not writable: %v\n", red("✗"), settings.OutputDir, err)
			} else {
				os.Remove(probe)
				fmt.Printf("  %s output dir %s writable\n", green("✓"), settings.OutputDir)
			}
		}

		fmt.Printf("%s Snapshot store\n", cyan("→"))
		if snaps, err := snapshot.Open(settings.SnapshotDB); err != nil {
			failures++
			fmt.Printf("  %s cannot open snapshot db %s: %v\n", red("✗"), settings.SnapshotDB, err)
		} else {
			snaps.Close()
			fmt.Printf("  %s snapshot db %s accessible\n", green("✓"), settings.SnapshotDB)
		}

		if failures > 0 {
			fmt.Printf("\n%s %d check(s) failed\n", red("✗"), failures)
			os.Exit(1)
		}
		fmt.Printf("\n%s all checks passed\n", green("✓"))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
