package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/config"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Manage the tracked repository list",
}

var reposListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tracked repositories",
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, err := config.LoadReposFile(reposFile)
		if os.IsNotExist(err) {
			// No file yet; show what the pipeline would actually use
			settings, lerr := config.Load(reposFile)
			if lerr != nil {
				return lerr
			}
			repos = settings.Repos
		} else if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		for _, repo := range repos {
			fmt.Printf("  %s\n", cyan(repo))
		}
		fmt.Printf("\n%d repositories tracked\n", len(repos))
		return nil
	},
}

var reposAddCmd = &cobra.Command{
	Use:   "add <owner/name>",
	Short: "Add a repository to the tracked list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.AddRepo(reposFile, args[0]); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s added %s to %s\n", green("✓"), args[0], reposFile)
		return nil
	},
}

func init() {
	reposCmd.AddCommand(reposListCmd)
	reposCmd.AddCommand(reposAddCmd)
	rootCmd.AddCommand(reposCmd)
}
