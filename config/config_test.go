package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PROMPTBOX_FORMAT", "PROMPTBOX_CONSUMER", "PROMPTBOX_WORKSPACE", "PROMPTBOX_DB", "PROMPTBOX_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.True(t, cfg.Workspace.AutoDetect)
	assert.False(t, cfg.History.Persist)
	assert.Equal(t, "history.db", filepath.Base(cfg.History.Path))
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
output:
  format: plain
consumer:
  command: "claude -p"
workspace:
  root: /src/genesis
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.Output.Format)
	assert.Equal(t, "claude -p", cfg.Consumer.Command)
	assert.Equal(t, "/src/genesis", cfg.Workspace.Root)
	// Keys not in the file keep their defaults.
	assert.True(t, cfg.Workspace.AutoDetect)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Consumer.Command = "pbcopy"
	cfg.History.Persist = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROMPTBOX_FORMAT", "json")
	t.Setenv("PROMPTBOX_CONSUMER", "cat")
	t.Setenv("PROMPTBOX_WORKSPACE", "/ws")
	t.Setenv("PROMPTBOX_DB", "/tmp/h.db")
	t.Setenv("PROMPTBOX_LOG_LEVEL", "debug")

	cfg := &Config{}
	cfg.applyEnvOverrides()

	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "cat", cfg.Consumer.Command)
	assert.Equal(t, "/ws", cfg.Workspace.Root)
	assert.Equal(t, "/tmp/h.db", cfg.History.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Output.Format = "html"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Logging.Level = "loud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("persist without path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.History.Persist = true
		cfg.History.Path = ""
		assert.Error(t, cfg.Validate())
	})
}
