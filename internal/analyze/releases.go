package analyze

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

// ReleaseAnalyzer extracts version-upgrade trend signals from release data
type ReleaseAnalyzer struct {
	client ai.CompletionClient
	model  string
	log    *logger.Logger
}

// NewReleaseAnalyzer creates a release analyzer using the given completion
// client and model
func NewReleaseAnalyzer(client ai.CompletionClient, model string) *ReleaseAnalyzer {
	return &ReleaseAnalyzer{
		client: client,
		model:  model,
		log:    logger.Named("release-analyzer"),
	}
}

// AnalyzeReleases analyzes the collected releases and returns signals for
// the significant ones. Patch-only bumps are excluded at the analysis
// level. Any failure yields an empty result.
func (ra *ReleaseAnalyzer) AnalyzeReleases(ctx context.Context, releases *types.ReleaseData) []types.Signal {
	if releases == nil || len(releases.DetailedReleases) == 0 {
		return nil
	}

	resp, err := ra.client.Complete(ctx, ai.CompletionRequest{
		Model:       ra.model,
		MaxTokens:   batchAnalysisMaxTokens,
		Temperature: 0.3,
		Prompt:      buildReleasePrompt(releases.DetailedReleases),
	})
	if err != nil {
		ra.log.Warn().Err(err).Int("releases", len(releases.DetailedReleases)).Msg("release analysis failed")
		return nil
	}

	items, err := decodeSignalArray(resp)
	if err != nil {
		ra.log.Warn().Err(err).Msg("release analysis returned unparseable response")
		return nil
	}

	var signals []types.Signal
	for i, item := range items {
		item.ID = fmt.Sprintf("release-%d", i)
		if i < len(releases.DetailedReleases) {
			item.Sources = []string{releaseURL(releases.DetailedReleases[i])}
		}
		sig, err := item.toSignal()
		if err != nil {
			ra.log.Warn().Err(err).Msg("release analysis produced invalid signal, dropping batch")
			return nil
		}
		signals = append(signals, sig)
	}
	return signals
}

func releaseURL(r types.ReleaseDetail) string {
	return fmt.Sprintf("https://github.com/%s/releases/tag/%s", r.Repo, r.TagName)
}

func buildReleasePrompt(releases []types.ReleaseDetail) string {
	data, _ := json.MarshalIndent(releases, "", "  ")
	return fmt.Sprintf(`You are a technology trend analyst. Analyze the GitHub releases below and extract the version-upgrade trends worth reporting.

## Releases

%s

## Requirements

Prioritize major version bumps and minor releases carrying breaking changes or significant new features. Filter out patch releases that only fix bugs (for example v1.0.0 to v1.0.1). Major upgrades typically score 4-5.

## Output

Respond with a JSON array, no prose. Each element:
{
  "title": "short signal title",
  "type": "capability|abstraction|workflow|eval|safety|performance|release",
  "category": "engineering|research",
  "impact_score": 1-5,
  "why_it_matters": "one or two sentences",
  "related_repos": ["owner/repo"],
  "sources": ["release url"]
}

If nothing significant shipped, respond with [].`, data)
}
