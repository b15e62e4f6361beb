// Package config loads helix settings with a two-level precedence:
// built-in defaults, overridden by the global ~/.helix/config.toml,
// overridden by a per-task .helix.yaml inside the task directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the run settings every command shares.
type Config struct {
	Model         string `toml:"model" yaml:"model"`
	MaxIterations int    `toml:"max_iterations" yaml:"max_iterations"`
	// JobTimeoutSeconds bounds a synchronous Tamarind submission.
	JobTimeoutSeconds int `toml:"job_timeout_seconds" yaml:"job_timeout_seconds"`
	// PollIntervalSeconds is the delay between job status polls.
	PollIntervalSeconds int    `toml:"poll_interval_seconds" yaml:"poll_interval_seconds"`
	OpenAIBaseURL       string `toml:"openai_base_url" yaml:"openai_base_url"`
	TamarindBaseURL     string `toml:"tamarind_base_url" yaml:"tamarind_base_url"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Model:               "gpt-4o",
		MaxIterations:       20,
		JobTimeoutSeconds:   600,
		PollIntervalSeconds: 10,
	}
}

// JobTimeout returns the job timeout as a duration.
func (c Config) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutSeconds) * time.Second
}

// PollInterval returns the poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// GlobalPath returns the global config location.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".helix", "config.toml")
}

// taskOverrideFile is the per-task override inside a task directory.
const taskOverrideFile = ".helix.yaml"

// Load resolves the configuration for a run. taskDir may be empty when no
// task is involved (e.g. `helix jobs`). Missing files are fine; malformed
// files are errors — silently ignoring a typo'd config is worse than
// failing.
func Load(taskDir string) (Config, error) {
	cfg := Defaults()

	if path := GlobalPath(); path != "" {
		if err := mergeTOML(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if taskDir != "" {
		if err := mergeYAML(filepath.Join(taskDir, taskOverrideFile), &cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// mergeTOML applies a TOML file over cfg if it exists.
func mergeTOML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// mergeYAML applies a YAML file over cfg if it exists.
func mergeYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
