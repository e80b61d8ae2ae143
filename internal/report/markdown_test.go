package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendpulse/trendpulse/internal/types"
)

func sampleSignal() types.Signal {
	return types.Signal{
		ID:           "langchain-ai/langchain-1234",
		Title:        "Agent 上下文感知",
		Type:         types.TypeCapability,
		Category:     types.CategoryEngineering,
		ImpactScore:  4,
		WhyItMatters: "上下文管理是 Agent 框架的核心能力。",
		Sources:      []string{"https://github.com/langchain-ai/langchain/pull/1234"},
		RelatedRepos: []string{"langchain-ai/langchain"},
	}
}

func TestTypeEmoji(t *testing.T) {
	assert.Equal(t, "🚀", TypeEmoji(types.TypeCapability))
	assert.Equal(t, "💾", TypeEmoji(types.TypeCommit))
	assert.Equal(t, "📌", TypeEmoji(types.SignalType("mystery")))
}

func TestImpactEmoji(t *testing.T) {
	assert.Equal(t, "⭐⭐⭐", ImpactEmoji(3))
	assert.Equal(t, "", ImpactEmoji(0))
}

func TestRenderSignal(t *testing.T) {
	r := NewMarkdownReporter()
	md := r.RenderSignal(sampleSignal())

	assert.Contains(t, md, "### 🚀 Agent 上下文感知")
	assert.Contains(t, md, "⭐⭐⭐⭐ (4/5)")
	assert.Contains(t, md, "`capability`")
	assert.Contains(t, md, "`langchain-ai/langchain`")
	assert.Contains(t, md, "[langchain-ai/langchain](https://github.com/langchain-ai/langchain/pull/1234)")
}

func TestRenderSignalsEmpty(t *testing.T) {
	r := NewMarkdownReporter()
	assert.Equal(t, "## 工程信号\n\n暂无信号。", r.RenderSignals(nil, "工程"))
}

func TestRenderSignalsHeaders(t *testing.T) {
	r := NewMarkdownReporter()
	assert.Contains(t, r.RenderSignals([]types.Signal{sampleSignal()}, "工程"), "## 🔧 工程信号")
	assert.Contains(t, r.RenderSignals([]types.Signal{sampleSignal()}, "研究"), "## 🔬 研究信号")
}

func TestRenderReportSections(t *testing.T) {
	r := NewMarkdownReporter()
	report := &types.DailyReport{
		Date:               "2026-08-30",
		SummaryBrief:       "今日趋势总结。",
		EngineeringSignals: []types.Signal{sampleSignal()},
		CommitSignals:      []types.Signal{sampleSignal()},
		ReleaseSignals:     []types.Signal{sampleSignal()},
		BreakingChanges: []types.BreakingChange{
			{Repo: "a/b", TagName: "v2.0.0", Description: "API removed", Severity: "high", Migration: "use the new API"},
		},
		Activity: &types.ActivityData{
			TotalCommits: 42,
			ActiveRepos:  3,
			RepoActivity: []types.RepoActivity{
				{Repo: "a/b_repo", CommitCount: 20, TopContributors: []types.Contributor{{Login: "alice", Commits: 12}}},
			},
		},
		Stats: types.ReportStats{TotalPRsAnalyzed: 5, HighImpactSignals: 1},
	}

	md := r.RenderReport(report)
	assert.Contains(t, md, "# TrendPulse 每日报告 - 2026-08-30")
	assert.Contains(t, md, "> 今日趋势总结。")
	assert.Contains(t, md, "## 🔧 工程信号")
	assert.Contains(t, md, "## 研究信号\n\n暂无信号。")
	assert.Contains(t, md, "## 💾 Commit 信号")
	assert.Contains(t, md, "## 📦 Release 信号")
	assert.Contains(t, md, "## ⚠️ Breaking Changes")
	assert.Contains(t, md, "use the new API")
	assert.Contains(t, md, "## 📈 仓库活跃度")
	assert.Contains(t, md, "| a/b\\_repo | 20 | 0 | alice (12) |")
	assert.Contains(t, md, "**分析 PR 数**: 5")
}

func TestRenderReportOmitsEmptySections(t *testing.T) {
	r := NewMarkdownReporter()
	md := r.RenderReport(&types.DailyReport{Date: "2026-08-30", SummaryBrief: "空"})
	assert.NotContains(t, md, "Commit 信号")
	assert.NotContains(t, md, "Breaking Changes")
	assert.NotContains(t, md, "仓库活跃度")
	assert.Contains(t, md, "## 📊 统计信息")
}

func TestSaveReportCreatesDirs(t *testing.T) {
	r := NewMarkdownReporter()
	path := filepath.Join(t.TempDir(), "reports", "report-2026-08-30.md")

	err := r.SaveReport(&types.DailyReport{Date: "2026-08-30", SummaryBrief: "x"}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2026-08-30")
}
