package collect

import (
	"context"

	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

// DetailFetcher resolves candidate PR events into full PR records with
// diff statistics
type DetailFetcher struct {
	client *GitHubClient
	log    *logger.Logger
}

// NewDetailFetcher creates a detail fetcher on top of the REST client
func NewDetailFetcher(client *GitHubClient) *DetailFetcher {
	return &DetailFetcher{client: client, log: logger.Named("details")}
}

// PRDetails fetches full details for every PullRequestEvent candidate,
// sequentially (the list is small after filtering). Failures skip the PR.
func (df *DetailFetcher) PRDetails(ctx context.Context, candidates []types.Event) []types.PRDetails {
	var details []types.PRDetails
	for _, ev := range candidates {
		if ev.Type != "PullRequestEvent" || ev.PR == nil {
			continue
		}
		pr, err := df.client.getPull(ctx, ev.Repo, ev.PR.Number)
		if err != nil {
			df.log.Warn().Err(err).Str("repo", ev.Repo).Int("number", ev.PR.Number).
				Msg("failed to fetch PR details, skipping")
			continue
		}
		d := types.PRDetails{
			Repo:         ev.Repo,
			Number:       pr.Number,
			Title:        pr.Title,
			Body:         pr.Body,
			CreatedAt:    pr.CreatedAt,
			ClosedAt:     pr.ClosedAt,
			URL:          pr.HTMLURL,
			State:        pr.State,
			Merged:       pr.Merged || pr.MergedAt != nil,
			Additions:    pr.Additions,
			Deletions:    pr.Deletions,
			ChangedFiles: pr.ChangedFiles,
		}
		if pr.User != nil {
			d.Author = pr.User.Login
		}
		details = append(details, d)
	}
	return details
}
