package types

import "time"

// Event is a normalized GitHub event fed into candidate filtering.
// The shape mirrors the GH Archive event envelope so both the REST
// collector and archived snapshots produce interchangeable records.
type Event struct {
	Type      string        `json:"type"`
	Repo      string        `json:"repo"`
	CreatedAt time.Time     `json:"created_at"`
	PR        *PullRequest  `json:"pull_request,omitempty"`
	Release   *ReleaseBrief `json:"release,omitempty"`
}

// PullRequest carries the PR payload of a PullRequestEvent
type PullRequest struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Merged bool     `json:"merged"`
	Labels []string `json:"labels"`
}

// ReleaseBrief carries the release payload of a ReleaseEvent
type ReleaseBrief struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Prerelease bool   `json:"prerelease"`
}

// PRDetails is the full view of a pull request fetched for analysis
type PRDetails struct {
	Repo         string     `json:"repo"`
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Author       string     `json:"author"`
	CreatedAt    time.Time  `json:"created_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	URL          string     `json:"url"`
	State        string     `json:"state"`
	Merged       bool       `json:"merged"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
}

// CommitDetail is one commit observed during activity collection
type CommitDetail struct {
	Repo      string    `json:"repo"`
	SHA       string    `json:"sha"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Contributor pairs a login with a commit count
type Contributor struct {
	Login   string `json:"login"`
	Commits int    `json:"commits"`
}

// RepoActivity summarizes one repository's recent commit activity
type RepoActivity struct {
	Repo            string         `json:"repo"`
	CommitCount     int            `json:"commit_count"`
	NewContributors int            `json:"new_contributors"`
	TopContributors []Contributor  `json:"top_contributors"`
	RecentCommits   []CommitDetail `json:"recent_commits"`
}

// ActivityData aggregates activity across all tracked repositories
type ActivityData struct {
	TotalCommits    int            `json:"total_commits"`
	ActiveRepos     int            `json:"active_repos"`
	NewContributors int            `json:"new_contributors"`
	RepoActivity    []RepoActivity `json:"repo_activity"`
	DetailedCommits []CommitDetail `json:"detailed_commits"`
	PeriodStart     time.Time      `json:"period_start"`
	PeriodEnd       time.Time      `json:"period_end"`
}

// VersionInfo is a parsed semantic version of a release tag
type VersionInfo struct {
	Major        int  `json:"major"`
	Minor        int  `json:"minor"`
	Patch        int  `json:"patch"`
	IsPrerelease bool `json:"is_prerelease"`
}

// ReleaseDetail is the full view of one published release
type ReleaseDetail struct {
	Repo        string       `json:"repo"`
	TagName     string       `json:"tag_name"`
	Name        string       `json:"name"`
	Prerelease  bool         `json:"prerelease"`
	CreatedAt   time.Time    `json:"created_at"`
	PublishedAt *time.Time   `json:"published_at,omitempty"`
	Body        string       `json:"body"`
	Author      string       `json:"author"`
	URL         string       `json:"html_url"`
	VersionInfo *VersionInfo `json:"version_info,omitempty"`
}

// RepoReleases summarizes one repository's releases in the collection window
type RepoReleases struct {
	Repo          string          `json:"repo"`
	ReleaseCount  int             `json:"release_count"`
	LatestRelease *ReleaseDetail  `json:"latest_release,omitempty"`
	Releases      []ReleaseDetail `json:"releases,omitempty"`
}

// ReleaseData aggregates releases across all tracked repositories
type ReleaseData struct {
	TotalReleases     int             `json:"total_releases"`
	ReposWithReleases int             `json:"repos_with_releases"`
	RepoReleases      []RepoReleases  `json:"repo_releases"`
	DetailedReleases  []ReleaseDetail `json:"detailed_releases"`
	PeriodStart       time.Time       `json:"period_start"`
	PeriodEnd         time.Time       `json:"period_end"`
}
