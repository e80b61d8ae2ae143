package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/dedup"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent signal history entries",
	Long: `List the signals recorded in the deduplication history within the
lookback window. These are the signals new extractions are compared
against.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		settings, err := config.Load(reposFile)
		if err != nil {
			return err
		}
		if days <= 0 {
			days = settings.LookbackDays
		}

		store, err := dedup.NewHistoryStore(settings.HistoryPath)
		if err != nil {
			return err
		}

		entries := store.LoadRecent(days)
		if len(entries) == 0 {
			fmt.Printf("no signals recorded in the last %d days (%s)\n", days, settings.HistoryPath)
			return nil
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()
		for _, e := range entries {
			stamp := "unknown time"
			if e.ObservedAt != nil {
				stamp = e.ObservedAt.Format("2006-01-02 15:04")
			}
			fmt.Printf("%s  %s %s\n", dim(stamp), cyan(e.Signal.Title), dim("["+string(e.Signal.Type)+", "+e.Signal.PrimaryRepo()+"]"))
		}
		fmt.Printf("\n%d signals in the last %d days\n", len(entries), days)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("days", "d", 0, "Lookback window in days (default DEDUP_LOOKBACK_DAYS)")
	rootCmd.AddCommand(historyCmd)
}
