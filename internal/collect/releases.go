package collect

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"golang.org/x/sync/errgroup"

	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

// ReleaseCollector gathers published releases with parsed version numbers
type ReleaseCollector struct {
	client *GitHubClient
	log    *logger.Logger
}

// NewReleaseCollector creates a release collector on top of the REST client
func NewReleaseCollector(client *GitHubClient) *ReleaseCollector {
	return &ReleaseCollector{client: client, log: logger.Named("releases")}
}

// Collect gathers releases created at or after since across all repos.
// Prereleases are skipped unless includePrereleases is set. Detailed
// releases are sorted newest first, repos by release count.
func (rc *ReleaseCollector) Collect(ctx context.Context, repos []string, since time.Time, includePrereleases bool) *types.ReleaseData {
	data := &types.ReleaseData{
		PeriodStart: since.UTC(),
		PeriodEnd:   time.Now().UTC(),
	}

	perRepo := make([]*types.RepoReleases, len(repos))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(collectorConcurrency)
	for i, repo := range repos {
		g.Go(func() error {
			rr, err := rc.collectRepo(ctx, repo, since, includePrereleases)
			if err != nil {
				rc.log.Warn().Err(err).Str("repo", repo).Msg("failed to collect releases, skipping repo")
				return nil
			}
			perRepo[i] = rr
			return nil
		})
	}
	_ = g.Wait()

	for _, rr := range perRepo {
		if rr == nil || rr.ReleaseCount == 0 {
			continue
		}
		data.RepoReleases = append(data.RepoReleases, *rr)
		data.DetailedReleases = append(data.DetailedReleases, rr.Releases...)
		data.ReposWithReleases++
		data.TotalReleases += rr.ReleaseCount
	}

	sort.SliceStable(data.DetailedReleases, func(i, j int) bool {
		return data.DetailedReleases[i].CreatedAt.After(data.DetailedReleases[j].CreatedAt)
	})
	sort.SliceStable(data.RepoReleases, func(i, j int) bool {
		return data.RepoReleases[i].ReleaseCount > data.RepoReleases[j].ReleaseCount
	})
	return data
}

func (rc *ReleaseCollector) collectRepo(ctx context.Context, repo string, since time.Time, includePrereleases bool) (*types.RepoReleases, error) {
	releases, err := rc.client.listReleases(ctx, repo, 30)
	if err != nil {
		return nil, err
	}

	rr := &types.RepoReleases{Repo: repo}
	for _, rel := range releases {
		if rel.CreatedAt.Before(since) {
			continue
		}
		if rel.Prerelease && !includePrereleases {
			continue
		}

		name := rel.Name
		if name == "" {
			name = rel.TagName
		}
		detail := types.ReleaseDetail{
			Repo:        repo,
			TagName:     rel.TagName,
			Name:        name,
			Prerelease:  rel.Prerelease,
			CreatedAt:   rel.CreatedAt,
			PublishedAt: rel.PublishedAt,
			Body:        rel.Body,
			URL:         rel.HTMLURL,
			VersionInfo: ParseVersion(rel.TagName),
		}
		if rel.Author != nil {
			detail.Author = rel.Author.Login
		} else {
			detail.Author = "Unknown"
		}

		rr.Releases = append(rr.Releases, detail)
		rr.ReleaseCount++
		if rr.LatestRelease == nil {
			d := detail
			rr.LatestRelease = &d
		}
	}
	return rr, nil
}

// prereleaseMarkers flag tags that look like preview builds even when the
// release itself is not flagged as a prerelease
var prereleaseMarkers = []string{"alpha", "beta", "rc", "pre", "dev", "nightly"}

// ParseVersion extracts major/minor/patch from a release tag. Tags that
// semver cannot make sense of even after canonicalization (v1.2, v2) are
// padded with zeros; anything else returns nil.
func ParseVersion(tag string) *types.VersionInfo {
	version := strings.TrimPrefix(strings.TrimSpace(tag), "v")
	if version == "" {
		return nil
	}

	lower := strings.ToLower(version)
	isPre := false
	for _, marker := range prereleaseMarkers {
		if strings.Contains(lower, marker) {
			isPre = true
			break
		}
	}

	canonical := semver.Canonical("v" + version)
	if canonical == "" {
		// Not valid semver; try the bare numeric prefix (1.2, 2)
		numeric := version
		if i := strings.IndexFunc(numeric, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.'
		}); i >= 0 {
			numeric = numeric[:i]
		}
		canonical = semver.Canonical("v" + strings.Trim(numeric, "."))
		if canonical == "" {
			return nil
		}
	}

	parts := strings.SplitN(strings.TrimPrefix(canonical, "v"), "-", 2)
	nums := strings.Split(parts[0], ".")
	if len(nums) != 3 {
		return nil
	}
	major, err1 := strconv.Atoi(nums[0])
	minor, err2 := strconv.Atoi(nums[1])
	patch, err3 := strconv.Atoi(nums[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if semver.Prerelease(canonical) != "" {
		isPre = true
	}
	return &types.VersionInfo{Major: major, Minor: minor, Patch: patch, IsPrerelease: isPre}
}
