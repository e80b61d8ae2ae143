package collect

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

// collectorConcurrency bounds the per-repo fan-out of every collector.
// Low on purpose: the rate limiter is the real throttle, this just keeps
// connection counts sane.
const collectorConcurrency = 4

// EventsCollector fetches recent pull-request events for the tracked repos
type EventsCollector struct {
	client *GitHubClient
	log    *logger.Logger
}

// NewEventsCollector creates an events collector on top of the REST client
func NewEventsCollector(client *GitHubClient) *EventsCollector {
	return &EventsCollector{client: client, log: logger.Named("events")}
}

// FetchEvents returns PR events created at or after since across all repos.
// Repos are fetched concurrently; the result preserves the order of the
// repos argument. A failing repo contributes nothing and is logged.
func (ec *EventsCollector) FetchEvents(ctx context.Context, repos []string, since time.Time) []types.Event {
	perRepo := make([][]types.Event, len(repos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(collectorConcurrency)
	for i, repo := range repos {
		g.Go(func() error {
			events, err := ec.fetchRepoEvents(ctx, repo, since)
			if err != nil {
				ec.log.Warn().Err(err).Str("repo", repo).Msg("failed to fetch events, skipping repo")
				return nil
			}
			perRepo[i] = events
			return nil
		})
	}
	_ = g.Wait()

	var all []types.Event
	for _, events := range perRepo {
		all = append(all, events...)
	}
	return all
}

func (ec *EventsCollector) fetchRepoEvents(ctx context.Context, repo string, since time.Time) ([]types.Event, error) {
	pulls, err := ec.client.listPulls(ctx, repo, 50)
	if err != nil {
		return nil, err
	}

	var events []types.Event
	for _, pr := range pulls {
		// Newest first; the first PR older than the window ends the repo
		if pr.CreatedAt.Before(since) {
			break
		}
		labels := make([]string, 0, len(pr.Labels))
		for _, l := range pr.Labels {
			labels = append(labels, l.Name)
		}
		events = append(events, types.Event{
			Type:      "PullRequestEvent",
			Repo:      repo,
			CreatedAt: pr.CreatedAt,
			PR: &types.PullRequest{
				Number: pr.Number,
				Title:  pr.Title,
				Body:   pr.Body,
				Merged: pr.Merged || pr.MergedAt != nil,
				Labels: labels,
			},
		})
	}
	return events, nil
}
