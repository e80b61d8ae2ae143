package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReposFile is the on-disk shape of the tracked-repository list
type ReposFile struct {
	Repos []string `yaml:"repos"`
}

// LoadReposFile reads the repository list from a YAML file
func LoadReposFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rf ReposFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse repos file: %w", err)
	}
	return rf.Repos, nil
}

// AddRepo appends a repository to the YAML file, creating it when absent.
// The list is kept sorted and duplicate entries are rejected.
func AddRepo(path, repo string) error {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid repo format: %q (want owner/name)", repo)
	}

	repos, err := LoadReposFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, r := range repos {
		if strings.EqualFold(r, repo) {
			return fmt.Errorf("repo %s is already tracked", repo)
		}
	}
	repos = append(repos, repo)
	sort.Strings(repos)

	data, err := yaml.Marshal(ReposFile{Repos: repos})
	if err != nil {
		return fmt.Errorf("failed to marshal repos file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
