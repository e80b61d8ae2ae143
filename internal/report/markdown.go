// Package report renders a DailyReport as markdown and writes it to disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trendpulse/trendpulse/internal/types"
)

// MarkdownReporter renders daily reports in the published markdown layout
type MarkdownReporter struct{}

// NewMarkdownReporter creates a markdown reporter
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

var typeEmojis = map[types.SignalType]string{
	types.TypeCapability:  "🚀",
	types.TypeAbstraction: "🎨",
	types.TypeWorkflow:    "⚙️",
	types.TypeEval:        "📊",
	types.TypeSafety:      "🛡️",
	types.TypePerformance: "⚡",
	types.TypeCommit:      "💾",
	types.TypeRelease:     "📦",
}

// TypeEmoji returns the emoji for a signal type, with a pin for unknowns
func TypeEmoji(t types.SignalType) string {
	if e, ok := typeEmojis[t]; ok {
		return e
	}
	return "📌"
}

// ImpactEmoji returns one star per impact point
func ImpactEmoji(score int) string {
	return strings.Repeat("⭐", score)
}

// RenderSignal renders one signal as a markdown section
func (r *MarkdownReporter) RenderSignal(sig types.Signal) string {
	var sources []string
	for _, url := range sig.Sources {
		sources = append(sources, fmt.Sprintf("- [%s](%s)", repoNameFromURL(url), url))
	}
	var repos []string
	for _, repo := range sig.RelatedRepos {
		repos = append(repos, "`"+repo+"`")
	}

	return fmt.Sprintf(`### %s %s

**类型**: `+"`%s`"+` | **影响**: %s (%d/5) | **分类**: `+"`%s`"+`

**为什么重要**: %s

**相关仓库**: %s

**来源**:
%s
`,
		TypeEmoji(sig.Type), sig.Title,
		sig.Type, ImpactEmoji(sig.ImpactScore), sig.ImpactScore, sig.Category,
		sig.WhyItMatters,
		strings.Join(repos, ", "),
		strings.Join(sources, "\n"))
}

// RenderSignals renders a category section. The category name is the
// Chinese section label (工程 or 研究).
func (r *MarkdownReporter) RenderSignals(signals []types.Signal, category string) string {
	if len(signals) == 0 {
		return fmt.Sprintf("## %s信号\n\n暂无信号。", category)
	}
	emoji := "🔬"
	if category == "工程" {
		emoji = "🔧"
	}
	return fmt.Sprintf("## %s %s信号\n\n%s", emoji, category, r.joinSignals(signals))
}

// RenderReport renders the full daily report
func (r *MarkdownReporter) RenderReport(report *types.DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# TrendPulse 每日报告 - %s\n\n> %s\n\n", report.Date, report.SummaryBrief)
	b.WriteString(r.RenderSignals(report.EngineeringSignals, "工程"))
	b.WriteString("\n\n")
	b.WriteString(r.RenderSignals(report.ResearchSignals, "研究"))

	if len(report.CommitSignals) > 0 {
		b.WriteString("\n## 💾 Commit 信号\n\n")
		b.WriteString(r.joinSignals(report.CommitSignals))
	}
	if len(report.ReleaseSignals) > 0 {
		b.WriteString("\n## 📦 Release 信号\n\n")
		b.WriteString(r.joinSignals(report.ReleaseSignals))
	}
	if len(report.BreakingChanges) > 0 {
		b.WriteString("\n" + r.renderBreakingChanges(report.BreakingChanges))
	}
	if report.Activity != nil {
		b.WriteString("\n" + r.renderActivity(report.Activity))
	}
	b.WriteString(r.renderStats(report.Stats))

	return b.String()
}

// SaveReport writes the rendered report to path, creating parent dirs
func (r *MarkdownReporter) SaveReport(report *types.DailyReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(r.RenderReport(report)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (r *MarkdownReporter) joinSignals(signals []types.Signal) string {
	parts := make([]string, 0, len(signals))
	for _, sig := range signals {
		parts = append(parts, r.RenderSignal(sig))
	}
	return strings.Join(parts, "\n\n")
}

func (r *MarkdownReporter) renderBreakingChanges(changes []types.BreakingChange) string {
	var b strings.Builder
	b.WriteString("---\n## ⚠️ Breaking Changes\n\n")
	for _, c := range changes {
		fmt.Fprintf(&b, "### %s %s\n\n", c.Repo, c.TagName)
		fmt.Fprintf(&b, "- **变更**: %s\n", c.Description)
		fmt.Fprintf(&b, "- **影响等级**: %s\n", c.Severity)
		if c.Migration != "" {
			fmt.Fprintf(&b, "- **迁移建议**: %s\n", c.Migration)
		}
		if c.SourceURL != "" {
			fmt.Fprintf(&b, "- **来源**: %s\n", c.SourceURL)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *MarkdownReporter) renderActivity(activity *types.ActivityData) string {
	var b strings.Builder
	b.WriteString("---\n## 📈 仓库活跃度\n\n### 总览\n\n")
	fmt.Fprintf(&b, "- **总 Commit 数**: %d\n", activity.TotalCommits)
	fmt.Fprintf(&b, "- **活跃仓库数**: %d\n", activity.ActiveRepos)
	fmt.Fprintf(&b, "- **新贡献者数**: %d\n", activity.NewContributors)

	if len(activity.RepoActivity) > 0 {
		b.WriteString("\n### 活跃仓库 TOP 10\n\n")
		b.WriteString("| 仓库 | Commits | 新贡献者 | Top 贡献者 |\n")
		b.WriteString("|------|--------|---------|------------|\n")
		for i, repo := range activity.RepoActivity {
			if i == 10 {
				break
			}
			contribs := "-"
			if len(repo.TopContributors) > 0 {
				var parts []string
				for j, c := range repo.TopContributors {
					if j == 3 {
						break
					}
					parts = append(parts, fmt.Sprintf("%s (%d)", c.Login, c.Commits))
				}
				contribs = strings.Join(parts, ", ")
			}
			name := strings.ReplaceAll(repo.Repo, "_", "\\_")
			fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", name, repo.CommitCount, repo.NewContributors, contribs)
		}
	}
	return b.String()
}

func (r *MarkdownReporter) renderStats(stats types.ReportStats) string {
	var b strings.Builder
	b.WriteString("\n---\n## 📊 统计信息\n\n")
	fmt.Fprintf(&b, "- **分析 PR 数**: %d\n", stats.TotalPRsAnalyzed)
	fmt.Fprintf(&b, "- **Release 数**: %d\n", stats.TotalReleases)
	fmt.Fprintf(&b, "- **高影响信号数**: %d\n", stats.HighImpactSignals)
	fmt.Fprintf(&b, "- **分析 Commit 数**: %d\n", stats.TotalCommitsAnalyzed)
	return b.String()
}

// repoNameFromURL extracts owner/repo from a github.com URL for link text
func repoNameFromURL(url string) string {
	if _, after, ok := strings.Cut(url, "github.com/"); ok {
		parts := strings.Split(after, "/")
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
	}
	return "链接"
}
