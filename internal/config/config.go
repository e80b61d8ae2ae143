// Package config loads pipeline settings from the environment (with .env
// support) and the tracked-repository list from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Settings holds every knob the pipeline reads. Values come from environment
// variables, falling back to the defaults below; a .env file in the working
// directory is honored when present.
type Settings struct {
	// GitHub
	GitHubToken   string   `validate:"-"`
	GitHubBaseURL string   `validate:"required,url"`
	Repos         []string `validate:"required,min=1,dive,repopath"`

	// Completion provider (Anthropic-compatible endpoint)
	AnthropicAPIKey  string        `validate:"required"`
	AnthropicBaseURL string        `validate:"omitempty,url"`
	AnthropicModel   string        `validate:"required"`
	MaxTokens        int           `validate:"gt=0"`
	RequestTimeout   time.Duration `validate:"gt=0"`

	// Candidate filtering
	CandidateLabels []string
	MaxCandidates   int `validate:"gt=0"`

	// Release monitoring
	MonitorReleases    bool
	IncludePrereleases bool

	// Deduplication
	LookbackDays int    `validate:"gt=0"`
	HistoryPath  string `validate:"required"`

	// Output
	OutputDir   string `validate:"required"`
	SnapshotDB  string `validate:"required"`
}

// defaultRepos is the tracked set used when no repos file or env override
// is provided.
var defaultRepos = []string{
	"anthropics/claude-code",
	"anthropics/anthropic-sdk-python",
	"anthropics/anthropic-sdk-typescript",
	"anthropics/anthropic-sdk-go",
	"anthropics/evals",
	"cline/cline",
	"paul-gauthier/aider",
	"continuedev/continue",
	"openai/openai-python",
	"Significant-Gravitas/AutoGPT",
	"langchain-ai/langchain",
	"langgenius/dify",
	"run-llama/llama_index",
	"microsoft/autogen",
	"google-gemini/gemini-cli",
}

// defaultCandidateLabels mark PRs likely to carry a trend signal
var defaultCandidateLabels = []string{
	"feature", "enhancement", "eval", "tooling", "agent", "workflow", "safety",
}

// Load builds Settings from the environment. reposFile, when non-empty and
// present on disk, overrides the repository list. Validation failures are
// operator errors and are returned, not recovered.
func Load(reposFile string) (*Settings, error) {
	// Missing .env is fine; explicit configs use real env vars
	_ = godotenv.Load()

	s := &Settings{
		GitHubToken:        os.Getenv("GITHUB_TOKEN"),
		GitHubBaseURL:      envOr("GITHUB_BASE_URL", "https://api.github.com"),
		Repos:              defaultRepos,
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:   envOr("ANTHROPIC_BASE_URL", "https://open.bigmodel.cn/api/anthropic"),
		AnthropicModel:     envOr("ANTHROPIC_MODEL", "glm-4.7"),
		MaxTokens:          envInt("ANTHROPIC_MAX_TOKENS", 8000),
		RequestTimeout:     time.Duration(envInt("ANTHROPIC_TIMEOUT_SECS", 120)) * time.Second,
		CandidateLabels:    defaultCandidateLabels,
		MaxCandidates:      envInt("MAX_CANDIDATES", 20),
		MonitorReleases:    envBool("MONITOR_RELEASES", true),
		IncludePrereleases: envBool("INCLUDE_PRERELEASES", false),
		LookbackDays:       envInt("DEDUP_LOOKBACK_DAYS", 7),
		HistoryPath:        envOr("SIGNAL_HISTORY_PATH", "data/signal_history.json"),
		OutputDir:          envOr("OUTPUT_DIR", "reports/daily"),
		SnapshotDB:         envOr("SNAPSHOT_DB", "data/snapshots.db"),
	}

	if v := os.Getenv("GITHUB_REPOS"); v != "" {
		s.Repos = splitList(v)
	}
	if reposFile != "" {
		if repos, err := LoadReposFile(reposFile); err == nil && len(repos) > 0 {
			s.Repos = repos
		} else if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read repos file %s: %w", reposFile, err)
		}
	}
	if v := os.Getenv("CANDIDATE_LABELS"); v != "" {
		s.CandidateLabels = splitList(v)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings with struct tags plus the owner/name rule
// on each repository entry.
func (s *Settings) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("repopath", validRepoPath); err != nil {
		return fmt.Errorf("failed to register repo validator: %w", err)
	}
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// validRepoPath enforces the "owner/name" repository format
func validRepoPath(fl validator.FieldLevel) bool {
	parts := strings.Split(fl.Field().String(), "/")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
