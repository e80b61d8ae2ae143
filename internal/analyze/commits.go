package analyze

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

const batchAnalysisMaxTokens = 4096

// CommitAnalyzer extracts trend signals from a day's worth of commits in
// a single batch completion call
type CommitAnalyzer struct {
	client ai.CompletionClient
	model  string
	log    *logger.Logger
}

// NewCommitAnalyzer creates a commit analyzer using the given completion
// client and model
func NewCommitAnalyzer(client ai.CompletionClient, model string) *CommitAnalyzer {
	return &CommitAnalyzer{
		client: client,
		model:  model,
		log:    logger.Named("commit-analyzer"),
	}
}

// AnalyzeCommits analyzes the commit batch and returns extracted signals.
// Any failure, from transport to response parsing, yields an empty result.
func (ca *CommitAnalyzer) AnalyzeCommits(ctx context.Context, commits []types.CommitDetail) []types.Signal {
	if len(commits) == 0 {
		return nil
	}

	resp, err := ca.client.Complete(ctx, ai.CompletionRequest{
		Model:       ca.model,
		MaxTokens:   batchAnalysisMaxTokens,
		Temperature: 0.3,
		Prompt:      buildCommitPrompt(commits),
	})
	if err != nil {
		ca.log.Warn().Err(err).Int("commits", len(commits)).Msg("commit analysis failed")
		return nil
	}

	items, err := decodeSignalArray(resp)
	if err != nil {
		ca.log.Warn().Err(err).Msg("commit analysis returned unparseable response")
		return nil
	}

	var signals []types.Signal
	for i, item := range items {
		item.ID = fmt.Sprintf("commit-%d", i)
		// Prefer a source link built from the commit itself over whatever
		// the model echoed back
		if i < len(commits) {
			item.Sources = []string{commitURL(commits[i])}
		}
		sig, err := item.toSignal()
		if err != nil {
			ca.log.Warn().Err(err).Msg("commit analysis produced invalid signal, dropping batch")
			return nil
		}
		signals = append(signals, sig)
	}
	return signals
}

func commitURL(c types.CommitDetail) string {
	return fmt.Sprintf("https://github.com/%s/commit/%s", c.Repo, c.SHA)
}

func buildCommitPrompt(commits []types.CommitDetail) string {
	data, _ := json.MarshalIndent(commits, "", "  ")
	return fmt.Sprintf(`You are a technology trend analyst. Analyze the GitHub commits below and extract the trends worth reporting.

## Commits

%s

## Requirements

Identify new capabilities, abstraction improvements, workflow optimizations, eval/test improvements, safety hardening, and performance work. Skip trivial fixes; only report genuinely valuable trends.

## Output

Respond with a JSON array, no prose. Each element:
{
  "title": "short signal title",
  "type": "capability|abstraction|workflow|eval|safety|performance|commit",
  "category": "engineering|research",
  "impact_score": 1-5,
  "why_it_matters": "one or two sentences",
  "related_repos": ["owner/repo"],
  "sources": ["commit url"]
}

If nothing is worth reporting, respond with [].`, data)
}
