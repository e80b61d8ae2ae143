package analyze

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

// BreakingChangesDetector scans release notes for incompatible changes
type BreakingChangesDetector struct {
	client ai.CompletionClient
	model  string
	log    *logger.Logger
}

// NewBreakingChangesDetector creates a detector using the given completion
// client and model
func NewBreakingChangesDetector(client ai.CompletionClient, model string) *BreakingChangesDetector {
	return &BreakingChangesDetector{
		client: client,
		model:  model,
		log:    logger.Named("breaking-changes"),
	}
}

// breakingRelease is the per-release wire shape the model returns
type breakingRelease struct {
	Repo        string `json:"repo"`
	TagName     string `json:"tag_name"`
	HasBreaking bool   `json:"has_breaking"`
	Changes     []struct {
		Description string `json:"description"`
		Impact      string `json:"impact"`
		Category    string `json:"category"`
		Migration   string `json:"migration"`
	} `json:"changes"`
}

// Detect scans the collected releases and returns one record per breaking
// change found. Any failure yields an empty result.
func (bd *BreakingChangesDetector) Detect(ctx context.Context, releases *types.ReleaseData) []types.BreakingChange {
	if releases == nil || len(releases.DetailedReleases) == 0 {
		return nil
	}

	resp, err := bd.client.Complete(ctx, ai.CompletionRequest{
		Model:       bd.model,
		MaxTokens:   batchAnalysisMaxTokens,
		Temperature: 0.3,
		Prompt:      buildBreakingPrompt(releases.DetailedReleases),
	})
	if err != nil {
		bd.log.Warn().Err(err).Int("releases", len(releases.DetailedReleases)).Msg("breaking change detection failed")
		return nil
	}

	var parsed []breakingRelease
	if err := json.Unmarshal([]byte(stripCodeFences(resp)), &parsed); err != nil {
		bd.log.Warn().Err(err).Msg("breaking change detection returned unparseable response")
		return nil
	}

	var changes []types.BreakingChange
	for _, rel := range parsed {
		if !rel.HasBreaking {
			continue
		}
		for _, c := range rel.Changes {
			changes = append(changes, types.BreakingChange{
				Repo:        rel.Repo,
				TagName:     rel.TagName,
				Description: c.Description,
				Severity:    c.Impact,
				Migration:   c.Migration,
				SourceURL:   fmt.Sprintf("https://github.com/%s/releases/tag/%s", rel.Repo, rel.TagName),
			})
		}
	}
	return changes
}

func buildBreakingPrompt(releases []types.ReleaseDetail) string {
	data, _ := json.MarshalIndent(releases, "", "  ")
	return fmt.Sprintf(`You are a technology analyst. Analyze the GitHub releases below and identify breaking changes.

## Releases

%s

## Criteria

A breaking change is an API removal or rename, a function signature change, an incompatible behavior change, a configuration format change, or a dependency requirement change. Rate impact: high (large migration touching core functionality), medium (small code adjustments), low (config or minor behavior). Categorize as API, Config, Behavior, or Dependency.

## Output

Respond with a JSON array containing only releases that have breaking changes:
[
  {
    "repo": "owner/repo",
    "tag_name": "vX.Y.Z",
    "has_breaking": true,
    "changes": [
      {
        "description": "short description",
        "impact": "high|medium|low",
        "category": "API|Config|Behavior|Dependency",
        "migration": "migration hint, optional"
      }
    ]
  }
]

If no release has breaking changes, respond with [].`, data)
}
