package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/types"
)

// fakeCompletionClient records requests and plays back a canned response
type fakeCompletionClient struct {
	response string
	err      error
	calls    []ai.CompletionRequest
}

func (f *fakeCompletionClient) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const prSignalJSON = `{
  "title": "Agent 上下文感知",
  "type": "capability",
  "category": "engineering",
  "impact_score": 4,
  "why_it_matters": "上下文管理是 Agent 框架的核心能力。"
}`

func samplePR() types.PRDetails {
	return types.PRDetails{
		Repo:   "langchain-ai/langchain",
		Number: 1234,
		Title:  "Add context awareness",
		URL:    "https://github.com/langchain-ai/langchain/pull/1234",
		Merged: true,
	}
}

func TestAnalyzePRBackfillsIdentity(t *testing.T) {
	client := &fakeCompletionClient{response: prSignalJSON}
	ta := NewTrendAnalyzer(client, "glm-4.7")

	sig, err := ta.AnalyzePR(context.Background(), samplePR())
	require.NoError(t, err)

	assert.Equal(t, "langchain-ai/langchain-1234", sig.ID)
	assert.Equal(t, []string{"https://github.com/langchain-ai/langchain/pull/1234"}, sig.Sources)
	assert.Equal(t, []string{"langchain-ai/langchain"}, sig.RelatedRepos)
	assert.Equal(t, types.TypeCapability, sig.Type)
	assert.Equal(t, 4, sig.ImpactScore)
}

func TestAnalyzePRUUIDFallbackWhenRepoUnknown(t *testing.T) {
	client := &fakeCompletionClient{response: prSignalJSON}
	ta := NewTrendAnalyzer(client, "glm-4.7")

	pr := samplePR()
	pr.Repo = ""
	sig, err := ta.AnalyzePR(context.Background(), pr)
	require.NoError(t, err)
	assert.NotEmpty(t, sig.ID)
	assert.Empty(t, sig.RelatedRepos)
}

func TestAnalyzePRStripsCodeFences(t *testing.T) {
	client := &fakeCompletionClient{response: "```json\n" + prSignalJSON + "\n```"}
	ta := NewTrendAnalyzer(client, "glm-4.7")

	sig, err := ta.AnalyzePR(context.Background(), samplePR())
	require.NoError(t, err)
	assert.Equal(t, "Agent 上下文感知", sig.Title)
}

func TestAnalyzePRRejectsInvalidSignal(t *testing.T) {
	client := &fakeCompletionClient{response: `{"title": "x", "type": "nonsense", "category": "engineering", "impact_score": 3, "why_it_matters": "y"}`}
	ta := NewTrendAnalyzer(client, "glm-4.7")

	_, err := ta.AnalyzePR(context.Background(), samplePR())
	assert.Error(t, err)
}

func TestAnalyzePRsSkipsFailures(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("api down")}
	ta := NewTrendAnalyzer(client, "glm-4.7")

	signals := ta.AnalyzePRs(context.Background(), []types.PRDetails{samplePR(), samplePR()})
	assert.Empty(t, signals)
	assert.Len(t, client.calls, 2)
}

func TestGenerateReportCategorizesAndCounts(t *testing.T) {
	client := &fakeCompletionClient{response: "今日趋势: Agent 框架持续演进。"}
	ta := NewTrendAnalyzer(client, "glm-4.7")

	signals := []types.Signal{
		{ID: "a", Title: "eng high", Type: types.TypeCapability, Category: types.CategoryEngineering, ImpactScore: 5, WhyItMatters: "x"},
		{ID: "b", Title: "research low", Type: types.TypeEval, Category: types.CategoryResearch, ImpactScore: 2, WhyItMatters: "y"},
	}
	report := ta.GenerateReport(context.Background(), signals, "2026-08-30")

	assert.Equal(t, "2026-08-30", report.Date)
	assert.Equal(t, "今日趋势: Agent 框架持续演进。", report.SummaryBrief)
	assert.Len(t, report.EngineeringSignals, 1)
	assert.Len(t, report.ResearchSignals, 1)
	assert.Equal(t, 2, report.Stats.TotalPRsAnalyzed)
	assert.Equal(t, 1, report.Stats.HighImpactSignals)
}

func TestGenerateReportFallsBackOnSummaryFailure(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("api down")}
	ta := NewTrendAnalyzer(client, "glm-4.7")

	report := ta.GenerateReport(context.Background(), nil, "2026-08-30")
	assert.NotEmpty(t, report.SummaryBrief)
	assert.Zero(t, report.Stats.TotalPRsAnalyzed)
}
