package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

const (
	prAnalysisMaxTokens = 1000
	reportMaxTokens     = 2000

	// Signals scoring at or above this count as high impact in report stats
	highImpactThreshold = 4
)

// TrendAnalyzer extracts trend signals from pull requests and assembles
// the daily report summary
type TrendAnalyzer struct {
	client ai.CompletionClient
	model  string
	log    *logger.Logger
}

// NewTrendAnalyzer creates a trend analyzer using the given completion
// client and model
func NewTrendAnalyzer(client ai.CompletionClient, model string) *TrendAnalyzer {
	return &TrendAnalyzer{
		client: client,
		model:  model,
		log:    logger.Named("trend-analyzer"),
	}
}

// AnalyzePR extracts one signal from a pull request. Missing identity
// fields are backfilled: ID from repo and number, sources from the PR URL,
// related repos from the PR's repo.
func (ta *TrendAnalyzer) AnalyzePR(ctx context.Context, pr types.PRDetails) (*types.Signal, error) {
	resp, err := ta.client.Complete(ctx, ai.CompletionRequest{
		Model:       ta.model,
		MaxTokens:   prAnalysisMaxTokens,
		Temperature: 0.3,
		Prompt:      buildPRPrompt(pr),
	})
	if err != nil {
		return nil, fmt.Errorf("analyze PR %s#%d: %w", pr.Repo, pr.Number, err)
	}

	var item signalItem
	if err := json.Unmarshal([]byte(stripCodeFences(resp)), &item); err != nil {
		return nil, fmt.Errorf("parse signal for PR %s#%d: %w", pr.Repo, pr.Number, err)
	}

	if item.ID == "" {
		if pr.Repo != "" {
			item.ID = fmt.Sprintf("%s-%d", pr.Repo, pr.Number)
		} else {
			item.ID = uuid.NewString()
		}
	}
	if len(item.Sources) == 0 && pr.URL != "" {
		item.Sources = []string{pr.URL}
	}
	if len(item.RelatedRepos) == 0 && pr.Repo != "" {
		item.RelatedRepos = []string{pr.Repo}
	}

	sig, err := item.toSignal()
	if err != nil {
		return nil, err
	}
	return &sig, nil
}

// AnalyzePRs analyzes each PR independently. A failing PR is logged and
// skipped; the rest still produce signals.
func (ta *TrendAnalyzer) AnalyzePRs(ctx context.Context, prs []types.PRDetails) []types.Signal {
	var signals []types.Signal
	for _, pr := range prs {
		sig, err := ta.AnalyzePR(ctx, pr)
		if err != nil {
			ta.log.Warn().Err(err).Str("repo", pr.Repo).Int("number", pr.Number).
				Msg("PR analysis failed, skipping")
			continue
		}
		signals = append(signals, *sig)
	}
	return signals
}

// GenerateReport assembles the daily report for the given signals. The
// summary paragraph comes from one completion call; when that call fails
// the report falls back to a mechanical summary so the run still produces
// output.
func (ta *TrendAnalyzer) GenerateReport(ctx context.Context, signals []types.Signal, date string) *types.DailyReport {
	engineering, research := types.Categorize(signals)
	highImpact := len(types.HighImpact(signals, highImpactThreshold))

	summary, err := ta.client.Complete(ctx, ai.CompletionRequest{
		Model:       ta.model,
		MaxTokens:   reportMaxTokens,
		Temperature: 0.3,
		Prompt:      buildSummaryPrompt(engineering, research, date, highImpact),
	})
	if err != nil {
		ta.log.Warn().Err(err).Msg("summary generation failed, using fallback")
		summary = fmt.Sprintf("共提取 %d 个趋势信号（工程 %d，研究 %d，高影响 %d）。",
			len(signals), len(engineering), len(research), highImpact)
	}

	return &types.DailyReport{
		Date:               date,
		SummaryBrief:       strings.TrimSpace(summary),
		EngineeringSignals: engineering,
		ResearchSignals:    research,
		Stats: types.ReportStats{
			TotalPRsAnalyzed:  len(signals),
			HighImpactSignals: highImpact,
		},
	}
}

func buildPRPrompt(pr types.PRDetails) string {
	var b strings.Builder
	b.WriteString("Analyze the following GitHub pull request and extract one trend signal.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", pr.Title)
	fmt.Fprintf(&b, "Repository: %s\n", pr.Repo)
	fmt.Fprintf(&b, "Author: %s\n", pr.Author)
	fmt.Fprintf(&b, "URL: %s\n", pr.URL)
	fmt.Fprintf(&b, "Changes: +%d/-%d across %d files\n\n", pr.Additions, pr.Deletions, pr.ChangedFiles)
	fmt.Fprintf(&b, "Description:\n%s\n\n", pr.Body)
	b.WriteString(`Respond with a single JSON object, no prose:
{
  "title": "short signal title",
  "type": "capability|abstraction|workflow|eval|safety|performance",
  "category": "engineering|research",
  "impact_score": 1-5,
  "why_it_matters": "one or two sentences",
  "related_repos": ["owner/repo"],
  "sources": ["url"]
}`)
	return b.String()
}

func buildSummaryPrompt(engineering, research []types.Signal, date string, highImpact int) string {
	var b strings.Builder
	b.WriteString("Write a brief daily trend summary (2-3 sentences, in Chinese) for the signals below.\n\n")
	fmt.Fprintf(&b, "Date: %s\n", date)
	fmt.Fprintf(&b, "Engineering signals: %d, research signals: %d, high impact: %d\n\n", len(engineering), len(research), highImpact)
	b.WriteString("Engineering:\n")
	writeSignalLines(&b, engineering)
	b.WriteString("\nResearch:\n")
	writeSignalLines(&b, research)
	b.WriteString("\nRespond with the summary text only.")
	return b.String()
}

func writeSignalLines(b *strings.Builder, signals []types.Signal) {
	if len(signals) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for _, s := range signals {
		fmt.Fprintf(b, "- %s (score %d, %s): %s\n", s.Title, s.ImpactScore, s.Type, s.WhyItMatters)
	}
}
