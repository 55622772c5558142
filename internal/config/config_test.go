package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "greetcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5*time.Second, time.Duration(cfg.Timeout))
	assert.Equal(t, "test_results", cfg.OutputDir)
	assert.Empty(t, cfg.Database)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
timeout: 10s
output_dir: out
database: history.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, time.Duration(cfg.Timeout))
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "history.db", cfg.Database)
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `database: history.db`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Timeout))
	assert.Equal(t, "test_results", cfg.OutputDir)
	assert.Equal(t, "history.db", cfg.Database)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, `
timeout: 10s
retrys: 3
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `timeout: fast`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	path := writeConfig(t, `timeout: 0s`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must be positive")
}

func TestLoadRejectsEmptyOutputDir(t *testing.T) {
	path := writeConfig(t, `output_dir: ""`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output_dir")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestDurationMarshalRoundTrip(t *testing.T) {
	d := Duration(1500 * time.Millisecond)

	out, err := d.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", out)
}
