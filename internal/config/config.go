package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
)

// repoRoot is swapped out in tests.
var repoRoot = findRepoRoot

// Load reads and merges configuration from user-level and repo-level JSONC files.
// Resolution order: defaults → user config (~/.config/consultant/consultant.jsonc)
// → repo config (.consultant/consultant.jsonc) → override file → environment.
// An override path that does not exist is an error.
func Load(override string) (*Config, error) {
	cfg := DefaultConfig()

	if userPath := UserConfigPath(); userPath != "" {
		if userMap, err := loadJSONC(userPath); err == nil {
			if err := mergeIntoConfig(&cfg, userMap); err != nil {
				return nil, fmt.Errorf("merging user config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if repoPath := RepoConfigPath(); repoPath != "" {
		if repoMap, err := loadJSONC(repoPath); err == nil {
			if err := mergeIntoConfig(&cfg, repoMap); err != nil {
				return nil, fmt.Errorf("merging repo config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if override != "" {
		m, err := loadJSONC(override)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", override, err)
		}
		if err := mergeIntoConfig(&cfg, m); err != nil {
			return nil, fmt.Errorf("merging config %s: %w", override, err)
		}
	}

	loadDotEnv()
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// UserConfigPath returns the user-level config file path, or "" if the
// user config directory is unknown.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "consultant", "consultant.jsonc")
}

// RepoConfigPath returns the repo-level config file path, or "" outside a
// git repository.
func RepoConfigPath() string {
	root := repoRoot()
	if root == "" {
		return ""
	}
	return filepath.Join(root, ".consultant", "consultant.jsonc")
}

// loadJSONC reads a JSONC file and returns it as a map.
func loadJSONC(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jsonData := jsonc.ToJSON(data)
	var m map[string]any
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// mergeIntoConfig marshals the config to a map, deep-merges the source map over it,
// then unmarshals back to the Config struct.
func mergeIntoConfig(cfg *Config, src map[string]any) error {
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var dst map[string]any
	if err := json.Unmarshal(cfgBytes, &dst); err != nil {
		return err
	}

	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return err
	}

	merged, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, cfg)
}

// findRepoRoot finds the git repository root via git rev-parse.
func findRepoRoot() string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// loadDotEnv reads .env from the working directory and the repo root.
// Variables already in the environment win.
func loadDotEnv() {
	paths := []string{".env"}
	if root := repoRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("could not load env file", "path", p, "error", err)
		}
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CONSULTANT_SESSIONS_DIR")); v != "" {
		cfg.SessionsDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CONSULTANT_MODEL")); v != "" {
		cfg.Model = v
	}
}

// apiKeyEnv lists the variables searched for an API key, highest priority first.
var apiKeyEnv = []string{"LITELLM_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"}

// ResolveAPIKey returns explicit if set, otherwise the first non-empty key
// from the environment.
func ResolveAPIKey(explicit string) string {
	if k := strings.TrimSpace(explicit); k != "" {
		return k
	}
	for _, name := range apiKeyEnv {
		if k := strings.TrimSpace(os.Getenv(name)); k != "" {
			return k
		}
	}
	return ""
}

// ExpandHome replaces a leading "~/" in a path with the user's home directory.
// If the path does not start with "~/" or the home directory cannot be determined,
// the path is returned unchanged.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") && path != "~" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// SessionsPath returns the sessions root with ~ expanded.
func (c *Config) SessionsPath() string {
	return ExpandHome(c.SessionsDir)
}

// RepoRoot returns the detected git repository root, or empty string if not in a repo.
func RepoRoot() string {
	return repoRoot()
}
