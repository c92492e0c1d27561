package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filepace/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filepace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"cp", "mv", "dd", "cat"}, cfg.Commands)
	assert.Equal(t, time.Second, cfg.Interval)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
commands: [rsync, tar]
additional_commands: [gzip]
interval: 250ms
window: 10s
history_depth: 5
query_timeout: 100ms
min_size: 64KB
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rsync", "tar"}, cfg.Commands)
	assert.Equal(t, []string{"gzip"}, cfg.AdditionalCommands)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, 10*time.Second, cfg.Window)
	assert.Equal(t, 5, cfg.HistoryDepth)
	assert.Equal(t, 100*time.Millisecond, cfg.QueryTimeout)
	assert.Equal(t, types.Bytes(64*1024), cfg.MinSize)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile_BadMinSize(t *testing.T) {
	path := writeConfig(t, "min_size: plenty\n")
	_, err := LoadFromFile(path)
	require.Error(t, err)
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "interval: 2s\n")
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, DefaultCommands, cfg.Commands)
	assert.Equal(t, 10, cfg.HistoryDepth)
}

func TestLoadFromFile_BadDuration(t *testing.T) {
	path := writeConfig(t, "interval: soon\n")
	_, err := LoadFromFile(path)
	require.Error(t, err)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile("/does/not/exist.yaml")
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := Default()
	merged := base.Merge(Config{
		Commands:           []string{"rsync"},
		AdditionalCommands: []string{"tar"},
		Interval:           3 * time.Second,
		MinSize:            types.Bytes(1024),
	})

	assert.Equal(t, []string{"rsync"}, merged.Commands)
	assert.Equal(t, []string{"tar"}, merged.AdditionalCommands)
	assert.Equal(t, 3*time.Second, merged.Interval)
	assert.Equal(t, types.Bytes(1024), merged.MinSize)
	assert.Equal(t, base.Window, merged.Window)
	assert.Equal(t, base.HistoryDepth, merged.HistoryDepth)
}

func TestMerge_ZeroOverrideKeepsBase(t *testing.T) {
	base := Default()
	merged := base.Merge(Config{})
	assert.Equal(t, base, merged)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero interval", func(c *Config) { c.Interval = 0 }},
		{"zero window", func(c *Config) { c.Window = 0 }},
		{"tiny history", func(c *Config) { c.HistoryDepth = 1 }},
		{"zero timeout", func(c *Config) { c.QueryTimeout = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
