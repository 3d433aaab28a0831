// Package config loads promptbox settings from ~/.promptbox/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all promptbox configuration.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	History   HistoryConfig   `yaml:"history"`
	Consumer  ConsumerConfig  `yaml:"consumer"`
	Templates TemplatesConfig `yaml:"templates"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // markdown, plain, json
	Pretty bool   `yaml:"pretty"` // render markdown for the terminal
}

// WorkspaceConfig controls project context detection.
type WorkspaceConfig struct {
	Root       string `yaml:"root"` // empty: current directory
	AutoDetect bool   `yaml:"auto_detect"`
}

// HistoryConfig controls the on-disk prompt archive.
type HistoryConfig struct {
	Path    string `yaml:"path"`
	Persist bool   `yaml:"persist"` // archive every rendered prompt
}

// ConsumerConfig names the command a prompt is piped to. {{action}},
// {{resource}} and {{id}} are substituted before it runs.
type ConsumerConfig struct {
	Command string `yaml:"command"`
}

type TemplatesConfig struct {
	Path string `yaml:"path"` // YAML file replacing the built-in templates
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Mode  string `yaml:"mode"`  // production, development
	File  string `yaml:"file"`  // TUI log file
}

// Dir is ~/.promptbox.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptbox"
	}
	return filepath.Join(home, ".promptbox")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Output: OutputConfig{
			Format: "markdown",
		},
		Workspace: WorkspaceConfig{
			AutoDetect: true,
		},
		History: HistoryConfig{
			Path: filepath.Join(dir, "history.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			Mode:  "production",
			File:  filepath.Join(dir, "promptbox.log"),
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PROMPTBOX_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("PROMPTBOX_CONSUMER"); v != "" {
		c.Consumer.Command = v
	}
	if v := os.Getenv("PROMPTBOX_WORKSPACE"); v != "" {
		c.Workspace.Root = v
	}
	if v := os.Getenv("PROMPTBOX_DB"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("PROMPTBOX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "markdown", "plain", "json":
	default:
		return fmt.Errorf("output.format must be markdown, plain or json, got %q", c.Output.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	if c.History.Persist && c.History.Path == "" {
		return errors.New("history.persist needs history.path")
	}
	return nil
}
