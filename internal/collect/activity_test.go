package collect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "fix bug", firstLine("fix bug\n\nlonger body", 80))
	assert.Equal(t, "short", firstLine("short", 80))
	assert.Equal(t, "ab", firstLine("abcdef", 2))
	assert.Equal(t, "上下", firstLine("上下文感知", 2))
}

func TestShortSHA(t *testing.T) {
	assert.Equal(t, "abcdef0", shortSHA("abcdef0123456789"))
	assert.Equal(t, "abc", shortSHA("abc"))
}

func TestActivityCollectorAggregates(t *testing.T) {
	now := time.Now().UTC()
	commit := func(sha, msg, login string) ghCommit {
		c := ghCommit{SHA: sha, Author: &ghUser{Login: login}}
		c.Commit.Message = msg
		c.Commit.Author.Date = now.Add(-time.Hour)
		return c
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/commits", r.URL.Path)
		since := r.URL.Query().Get("since")
		// The 30-day lookback request establishes known authors
		sinceTime, _ := time.Parse(time.RFC3339, since)
		if sinceTime.Before(now.Add(-48 * time.Hour)) {
			json.NewEncoder(w).Encode([]ghCommit{commit("000", "earlier work", "alice")})
			return
		}
		json.NewEncoder(w).Encode([]ghCommit{
			commit("abcdef0123456789", "add caching\n\ndetails", "alice"),
			commit("1111111111111111", "first patch", "bob"),
			commit("2222222222222222", "second patch", "bob"),
		})
	}))
	defer srv.Close()

	ac := NewActivityCollector(NewGitHubClient(srv.URL, ""))
	data := ac.Collect(context.Background(), []string{"acme/widgets"}, now)

	assert.Equal(t, 3, data.TotalCommits)
	assert.Equal(t, 1, data.ActiveRepos)
	assert.Equal(t, 1, data.NewContributors) // bob is new, alice is not

	require.Len(t, data.RepoActivity, 1)
	repo := data.RepoActivity[0]
	assert.Equal(t, 3, repo.CommitCount)
	require.Len(t, repo.TopContributors, 2)
	assert.Equal(t, "bob", repo.TopContributors[0].Login)
	assert.Equal(t, 2, repo.TopContributors[0].Commits)

	require.NotEmpty(t, repo.RecentCommits)
	assert.Equal(t, "abcdef0", repo.RecentCommits[0].SHA)
	assert.Equal(t, "add caching", repo.RecentCommits[0].Message)

	// Detailed commits keep the full SHA
	require.Len(t, data.DetailedCommits, 3)
	assert.Equal(t, "abcdef0123456789", data.DetailedCommits[0].SHA)
}

func TestActivityCollectorFailingRepoSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ac := NewActivityCollector(NewGitHubClient(srv.URL, ""))
	data := ac.Collect(context.Background(), []string{"gone/gone"}, time.Now())

	assert.Zero(t, data.TotalCommits)
	assert.Empty(t, data.RepoActivity)
}
