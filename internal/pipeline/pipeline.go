// Package pipeline wires the collectors, analyzers, deduplication engine,
// and reporter into the daily run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/analyze"
	"github.com/trendpulse/trendpulse/internal/collect"
	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/dedup"
	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/report"
	"github.com/trendpulse/trendpulse/internal/snapshot"
	"github.com/trendpulse/trendpulse/internal/types"
)

// Pipeline coordinates one daily trend analysis run
type Pipeline struct {
	settings *config.Settings

	events    *collect.EventsCollector
	activity  *collect.ActivityCollector
	releases  *collect.ReleaseCollector
	filter    *collect.EventFilter
	fetcher   *collect.DetailFetcher
	trends    *analyze.TrendAnalyzer
	commits   *analyze.CommitAnalyzer
	relSig    *analyze.ReleaseAnalyzer
	breaking  *analyze.BreakingChangesDetector
	dedup     *dedup.Deduplicator
	reporter  *report.MarkdownReporter
	snapshots *snapshot.Store

	log *logger.Logger
}

// New builds a pipeline from settings, constructing the production
// completion client
func New(settings *config.Settings) (*Pipeline, error) {
	client, err := ai.NewAnthropicClient(ai.ClientConfig{
		APIKey:  settings.AnthropicAPIKey,
		BaseURL: settings.AnthropicBaseURL,
		Timeout: settings.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}
	return newPipeline(settings, client)
}

func newPipeline(settings *config.Settings, client ai.CompletionClient) (*Pipeline, error) {
	gh := collect.NewGitHubClient(settings.GitHubBaseURL, settings.GitHubToken)

	deduper, err := dedup.New(client, dedup.Config{
		LookbackDays: settings.LookbackDays,
		HistoryPath:  settings.HistoryPath,
		Model:        settings.AnthropicModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create deduplicator: %w", err)
	}

	snapshots, err := snapshot.Open(settings.SnapshotDB)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	return &Pipeline{
		settings:  settings,
		events:    collect.NewEventsCollector(gh),
		activity:  collect.NewActivityCollector(gh),
		releases:  collect.NewReleaseCollector(gh),
		filter:    collect.NewEventFilter(settings.CandidateLabels, settings.MaxCandidates),
		fetcher:   collect.NewDetailFetcher(gh),
		trends:    analyze.NewTrendAnalyzer(client, settings.AnthropicModel),
		commits:   analyze.NewCommitAnalyzer(client, settings.AnthropicModel),
		relSig:    analyze.NewReleaseAnalyzer(client, settings.AnthropicModel),
		breaking:  analyze.NewBreakingChangesDetector(client, settings.AnthropicModel),
		dedup:     deduper,
		reporter:  report.NewMarkdownReporter(),
		snapshots: snapshots,
		log:       logger.Named("pipeline"),
	}, nil
}

// Close releases the pipeline's persistent resources
func (p *Pipeline) Close() error {
	return p.snapshots.Close()
}

// RunDaily executes the full daily flow for the given date and returns the
// assembled report. Collector and analyzer failures degrade to empty
// sections; only report persistence and history write failures abort.
func (p *Pipeline) RunDaily(ctx context.Context, date time.Time) (*types.DailyReport, error) {
	dateStr := date.Format("2006-01-02")
	since := date.Add(-24 * time.Hour)
	repos := p.settings.Repos

	p.log.Info().Str("date", dateStr).Int("repos", len(repos)).Msg("starting daily run")

	activityData := p.activity.Collect(ctx, repos, date)

	var releaseData *types.ReleaseData
	if p.settings.MonitorReleases {
		releaseData = p.releases.Collect(ctx, repos, since, p.settings.IncludePrereleases)
	}

	commitSignals := p.commits.AnalyzeCommits(ctx, activityData.DetailedCommits)

	events := p.events.FetchEvents(ctx, repos, since)
	candidates := p.filter.Candidates(events)
	prDetails := p.fetcher.PRDetails(ctx, candidates)
	prSignals := p.trends.AnalyzePRs(ctx, prDetails)

	releaseSignals := p.relSig.AnalyzeReleases(ctx, releaseData)
	breakingChanges := p.breaking.Detect(ctx, releaseData)

	// One dedup pass over everything extracted today, then split back by
	// origin. Commit and release signal IDs carry their origin prefix.
	batch := make([]types.Signal, 0, len(prSignals)+len(commitSignals)+len(releaseSignals))
	batch = append(batch, prSignals...)
	batch = append(batch, commitSignals...)
	batch = append(batch, releaseSignals...)

	unique, err := p.dedup.Deduplicate(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("deduplicate signals: %w", err)
	}
	prUnique, commitUnique, releaseUnique := splitByOrigin(unique)

	var daily *types.DailyReport
	if len(prUnique) > 0 {
		daily = p.trends.GenerateReport(ctx, prUnique, dateStr)
	} else {
		daily = &types.DailyReport{
			Date:         dateStr,
			SummaryBrief: fmt.Sprintf("今日 (%s) 未发现符合条件的趋势信号。", dateStr),
		}
	}

	daily.CommitSignals = commitUnique
	daily.ReleaseSignals = releaseUnique
	daily.Activity = activityData
	daily.Releases = releaseData
	daily.BreakingChanges = breakingChanges
	daily.Stats.TotalCommitsAnalyzed = len(activityData.DetailedCommits)
	if releaseData != nil {
		daily.Stats.TotalReleases = releaseData.TotalReleases
	}

	outputPath := filepath.Join(p.settings.OutputDir, "report-"+dateStr+".md")
	if err := p.reporter.SaveReport(daily, outputPath); err != nil {
		return nil, err
	}

	// Snapshot failures are logged, not fatal; the report already exists
	snap := &snapshot.Snapshot{
		RunDate:  dateStr,
		Events:   events,
		Activity: activityData,
		Releases: releaseData,
	}
	if err := p.snapshots.Save(ctx, snap); err != nil {
		p.log.Warn().Err(err).Msg("failed to save run snapshot")
	}

	p.log.Info().
		Int("pr_signals", len(prUnique)).
		Int("commit_signals", len(commitUnique)).
		Int("release_signals", len(releaseUnique)).
		Int("breaking_changes", len(breakingChanges)).
		Str("report", outputPath).
		Msg("daily run complete")
	return daily, nil
}

func splitByOrigin(signals []types.Signal) (pr, commit, release []types.Signal) {
	for _, s := range signals {
		switch {
		case strings.HasPrefix(s.ID, "commit-"):
			commit = append(commit, s)
		case strings.HasPrefix(s.ID, "release-"):
			release = append(release, s)
		default:
			pr = append(pr, s)
		}
	}
	return pr, commit, release
}
