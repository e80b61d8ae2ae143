package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/dedup"
	"github.com/trendpulse/trendpulse/internal/types"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup <signals.json>",
	Short: "Run the deduplication engine over a signals file",
	Long: `Read a JSON array of signals from a file, run them through the
three-stage deduplication engine (fingerprint, title similarity, semantic
judge), and print which signals survive. Unique signals are appended to
the history unless --dry-run is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read signals file: %w", err)
		}
		var signals []types.Signal
		if err := json.Unmarshal(data, &signals); err != nil {
			return fmt.Errorf("parse signals file: %w", err)
		}

		settings, err := config.Load(reposFile)
		if err != nil {
			return err
		}

		client, err := ai.NewAnthropicClient(ai.ClientConfig{
			APIKey:  settings.AnthropicAPIKey,
			BaseURL: settings.AnthropicBaseURL,
			Timeout: settings.RequestTimeout,
		})
		if err != nil {
			return err
		}

		cfg := dedup.Config{
			LookbackDays: settings.LookbackDays,
			HistoryPath:  settings.HistoryPath,
			Model:        settings.AnthropicModel,
		}
		if dryRun {
			// Point appends at a throwaway file so the real history is
			// only read, never written
			tmp, err := os.CreateTemp("", "trendpulse-dedup-*.json")
			if err != nil {
				return err
			}
			defer os.Remove(tmp.Name())
			tmp.Close()
			if err := copyFile(settings.HistoryPath, tmp.Name()); err != nil {
				return err
			}
			cfg.HistoryPath = tmp.Name()
		}

		d, err := dedup.New(client, cfg)
		if err != nil {
			return err
		}

		unique, err := d.Deduplicate(context.Background(), signals)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		kept := make(map[string]bool, len(unique))
		for _, s := range unique {
			kept[s.ID] = true
		}
		for _, s := range signals {
			if kept[s.ID] {
				fmt.Printf("%s %s (%s)\n", green("✓ unique    "), s.Title, s.ID)
			} else {
				fmt.Printf("%s %s (%s)\n", yellow("⊘ duplicate "), s.Title, s.ID)
			}
		}
		fmt.Printf("\n%d of %d signals unique\n", len(unique), len(signals))
		return nil
	},
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func init() {
	dedupCmd.Flags().Bool("dry-run", false, "Do not append unique signals to the history")
	rootCmd.AddCommand(dedupCmd)
}
