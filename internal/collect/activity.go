package collect

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

// ActivityCollector aggregates commit activity: counts, new contributors,
// and per-repo leaderboards
type ActivityCollector struct {
	client *GitHubClient
	log    *logger.Logger
}

// NewActivityCollector creates an activity collector on top of the REST client
func NewActivityCollector(client *GitHubClient) *ActivityCollector {
	return &ActivityCollector{client: client, log: logger.Named("activity")}
}

// Collect gathers the 24 hours of commit activity ending at since for every
// repo. Repos fail independently; the aggregate is sorted by commit count.
func (ac *ActivityCollector) Collect(ctx context.Context, repos []string, since time.Time) *types.ActivityData {
	data := &types.ActivityData{
		PeriodStart: since.UTC(),
		PeriodEnd:   time.Now().UTC(),
	}

	type repoResult struct {
		activity types.RepoActivity
		commits  []types.CommitDetail
	}
	results := make([]*repoResult, len(repos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(collectorConcurrency)
	for i, repo := range repos {
		g.Go(func() error {
			activity, commits, err := ac.collectRepo(ctx, repo, since)
			if err != nil {
				ac.log.Warn().Err(err).Str("repo", repo).Msg("failed to collect activity, skipping repo")
				return nil
			}
			results[i] = &repoResult{activity: activity, commits: commits}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r == nil {
			continue
		}
		data.RepoActivity = append(data.RepoActivity, r.activity)
		data.DetailedCommits = append(data.DetailedCommits, r.commits...)
		if r.activity.CommitCount > 0 {
			data.ActiveRepos++
			data.TotalCommits += r.activity.CommitCount
			data.NewContributors += r.activity.NewContributors
		}
	}

	sort.SliceStable(data.RepoActivity, func(i, j int) bool {
		return data.RepoActivity[i].CommitCount > data.RepoActivity[j].CommitCount
	})
	return data
}

func (ac *ActivityCollector) collectRepo(ctx context.Context, repo string, since time.Time) (types.RepoActivity, []types.CommitDetail, error) {
	activity := types.RepoActivity{Repo: repo}

	commits, err := ac.client.listCommits(ctx, repo, since.Add(-24*time.Hour), since, 100)
	if err != nil {
		return activity, nil, err
	}

	// Contributors seen in the preceding month; commits from anyone else
	// count as new-contributor activity. Best effort: on failure the set
	// stays empty and every author looks new, which only inflates a stat.
	existing := make(map[string]bool)
	if past, err := ac.client.listCommits(ctx, repo, since.AddDate(0, 0, -30), since, 100); err == nil {
		for _, c := range past {
			if c.Author != nil {
				existing[c.Author.Login] = true
			}
		}
	}

	var details []types.CommitDetail
	byAuthor := make(map[string]int)
	newContributors := make(map[string]bool)

	for _, c := range commits {
		activity.CommitCount++

		author := "Unknown"
		if c.Author != nil {
			author = c.Author.Login
		}
		detail := types.CommitDetail{
			Repo:      repo,
			SHA:       c.SHA,
			Message:   firstLine(c.Commit.Message, 200),
			Author:    author,
			Timestamp: c.Commit.Author.Date,
		}
		details = append(details, detail)

		if len(activity.RecentCommits) < 5 {
			recent := detail
			recent.SHA = shortSHA(c.SHA)
			recent.Message = firstLine(c.Commit.Message, 80)
			activity.RecentCommits = append(activity.RecentCommits, recent)
		}

		if c.Author != nil {
			byAuthor[author]++
			if !existing[author] {
				newContributors[author] = true
			}
		}
	}
	activity.NewContributors = len(newContributors)

	type entry struct {
		login string
		count int
	}
	ranked := make([]entry, 0, len(byAuthor))
	for login, count := range byAuthor {
		ranked = append(ranked, entry{login, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].login < ranked[j].login
	})
	for i, e := range ranked {
		if i == 5 {
			break
		}
		activity.TopContributors = append(activity.TopContributors, types.Contributor{
			Login:   e.login,
			Commits: e.count,
		})
	}

	return activity, details, nil
}

func firstLine(msg string, limit int) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	runes := []rune(msg)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return msg
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
