// Package collect gathers raw GitHub activity (pull requests, commits,
// releases) for the configured repositories. Collectors are thin wrappers
// over the REST API: per-repo failures are logged and skipped so one broken
// repository never sinks a daily run.
package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/trendpulse/trendpulse/internal/logger"
)

// GitHubClient is a minimal REST client for the endpoints the collectors
// need. Requests pass through a shared rate limiter sized below GitHub's
// secondary limits.
type GitHubClient struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewGitHubClient creates a client. An empty token is allowed; unauth
// requests work against public repos under a much tighter quota.
func NewGitHubClient(baseURL, token string) *GitHubClient {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &GitHubClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		// ~5000 req/h authenticated; stay well under with headroom for bursts
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		log:     logger.Named("github"),
	}
}

// getJSON performs one GET against the API and decodes the response body
func (c *GitHubClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github API %s returned %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Wire shapes for the GitHub REST API, trimmed to the fields we read

type ghUser struct {
	Login string `json:"login"`
}

type ghLabel struct {
	Name string `json:"name"`
}

type ghPull struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	User         *ghUser    `json:"user"`
	CreatedAt    time.Time  `json:"created_at"`
	ClosedAt     *time.Time `json:"closed_at"`
	MergedAt     *time.Time `json:"merged_at"`
	HTMLURL      string     `json:"html_url"`
	State        string     `json:"state"`
	Merged       bool       `json:"merged"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
	Labels       []ghLabel  `json:"labels"`
}

type ghCommit struct {
	SHA    string  `json:"sha"`
	Author *ghUser `json:"author"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type ghRelease struct {
	TagName     string     `json:"tag_name"`
	Name        string     `json:"name"`
	Body        string     `json:"body"`
	Prerelease  bool       `json:"prerelease"`
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at"`
	Author      *ghUser    `json:"author"`
	HTMLURL     string     `json:"html_url"`
}

// listPulls returns the most recently created PRs for a repo, newest first
func (c *GitHubClient) listPulls(ctx context.Context, repo string, perPage int) ([]ghPull, error) {
	params := url.Values{
		"state":     {"all"},
		"sort":      {"created"},
		"direction": {"desc"},
		"per_page":  {fmt.Sprint(perPage)},
	}
	var pulls []ghPull
	if err := c.getJSON(ctx, "/repos/"+repo+"/pulls", params, &pulls); err != nil {
		return nil, err
	}
	return pulls, nil
}

// getPull returns one PR with full detail (diff stats are only present on
// the single-PR endpoint)
func (c *GitHubClient) getPull(ctx context.Context, repo string, number int) (*ghPull, error) {
	var pull ghPull
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/pulls/%d", repo, number), nil, &pull); err != nil {
		return nil, err
	}
	return &pull, nil
}

// listCommits returns commits in [since, until], newest first
func (c *GitHubClient) listCommits(ctx context.Context, repo string, since, until time.Time, perPage int) ([]ghCommit, error) {
	params := url.Values{
		"since":    {since.UTC().Format(time.RFC3339)},
		"per_page": {fmt.Sprint(perPage)},
	}
	if !until.IsZero() {
		params.Set("until", until.UTC().Format(time.RFC3339))
	}
	var commits []ghCommit
	if err := c.getJSON(ctx, "/repos/"+repo+"/commits", params, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// listReleases returns the most recent releases for a repo
func (c *GitHubClient) listReleases(ctx context.Context, repo string, perPage int) ([]ghRelease, error) {
	params := url.Values{"per_page": {fmt.Sprint(perPage)}}
	var releases []ghRelease
	if err := c.getJSON(ctx, "/repos/"+repo+"/releases", params, &releases); err != nil {
		return nil, err
	}
	return releases, nil
}
