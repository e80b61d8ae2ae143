package types

import (
	"fmt"
	"strings"
)

// Signal represents a single extracted trend observation
type Signal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Type         SignalType `json:"type"`
	Category     Category   `json:"category"`
	ImpactScore  int        `json:"impact_score"`
	WhyItMatters string     `json:"why_it_matters"`
	Sources      []string   `json:"sources"`
	RelatedRepos []string   `json:"related_repos"`
}

// Validate checks if the signal has valid field values
func (s *Signal) Validate() error {
	if len(s.ID) == 0 {
		return fmt.Errorf("id is required")
	}
	if len(strings.TrimSpace(s.Title)) == 0 {
		return fmt.Errorf("title is required")
	}
	if !s.Type.IsValid() {
		return fmt.Errorf("invalid signal type: %s", s.Type)
	}
	if !s.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", s.Category)
	}
	if s.ImpactScore < 1 || s.ImpactScore > 5 {
		return fmt.Errorf("impact_score must be between 1 and 5 (got %d)", s.ImpactScore)
	}
	return nil
}

// PrimaryRepo returns the first related repository, or "unknown" when the
// signal carries no repository attribution. Fingerprinting keys off this.
func (s *Signal) PrimaryRepo() string {
	if len(s.RelatedRepos) == 0 {
		return "unknown"
	}
	return s.RelatedRepos[0]
}

// SignalType categorizes the kind of trend a signal describes
type SignalType string

const (
	TypeCapability  SignalType = "capability"
	TypeAbstraction SignalType = "abstraction"
	TypeWorkflow    SignalType = "workflow"
	TypeEval        SignalType = "eval"
	TypeSafety      SignalType = "safety"
	TypePerformance SignalType = "performance"
	TypeCommit      SignalType = "commit"
	TypeRelease     SignalType = "release"
)

// IsValid checks if the signal type value is valid
func (t SignalType) IsValid() bool {
	switch t {
	case TypeCapability, TypeAbstraction, TypeWorkflow, TypeEval,
		TypeSafety, TypePerformance, TypeCommit, TypeRelease:
		return true
	}
	return false
}

// Category splits signals into engineering and research work
type Category string

const (
	CategoryEngineering Category = "engineering"
	CategoryResearch    Category = "research"
)

// IsValid checks if the category value is valid
func (c Category) IsValid() bool {
	return c == CategoryEngineering || c == CategoryResearch
}

// ReportStats carries aggregate counters for a daily report
type ReportStats struct {
	TotalPRsAnalyzed     int `json:"total_prs_analyzed"`
	TotalReleases        int `json:"total_releases"`
	HighImpactSignals    int `json:"high_impact_signals"`
	TotalCommitsAnalyzed int `json:"total_commits_analyzed"`
}

// BreakingChange describes an incompatible change found in release notes
type BreakingChange struct {
	Repo        string `json:"repo"`
	TagName     string `json:"tag_name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Migration   string `json:"migration,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

// DailyReport is the assembled output of one pipeline run
type DailyReport struct {
	Date               string           `json:"date"`
	SummaryBrief       string           `json:"summary_brief"`
	EngineeringSignals []Signal         `json:"engineering_signals"`
	ResearchSignals    []Signal         `json:"research_signals"`
	CommitSignals      []Signal         `json:"commit_signals"`
	ReleaseSignals     []Signal         `json:"release_signals"`
	Stats              ReportStats      `json:"stats"`
	Activity           *ActivityData    `json:"activity,omitempty"`
	Releases           *ReleaseData     `json:"releases,omitempty"`
	BreakingChanges    []BreakingChange `json:"breaking_changes,omitempty"`
}

// HighImpact returns the signals at or above the given impact threshold
func HighImpact(signals []Signal, threshold int) []Signal {
	var out []Signal
	for _, s := range signals {
		if s.ImpactScore >= threshold {
			out = append(out, s)
		}
	}
	return out
}

// Categorize splits signals into engineering and research buckets,
// preserving input order within each bucket
func Categorize(signals []Signal) (engineering, research []Signal) {
	for _, s := range signals {
		if s.Category == CategoryResearch {
			research = append(research, s)
		} else {
			engineering = append(engineering, s)
		}
	}
	return engineering, research
}
