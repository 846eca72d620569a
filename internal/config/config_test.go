package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedex/notedex/internal/errors"
)

func TestDefault_SensibleValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 500*time.Millisecond, cfg.Vault.WatchDebounce)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, 256, cfg.Search.CacheSize)
	assert.Equal(t, "127.0.0.1:7781", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile_ReturnsDefaultsWithDir(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Vault.Dir)
	assert.Equal(t, 50, cfg.Search.MaxResults)
}

func TestLoad_YAMLFile_OverridesDefaults(t *testing.T) {
	// Given: a vault-local config file
	dir := t.TempDir()
	yaml := `
search:
  max_results: 10
server:
  addr: "127.0.0.1:9999"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0o644))

	// When: loading
	cfg, err := Load(dir)

	// Then: file values win over defaults, untouched fields keep defaults
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, 256, cfg.Search.CacheSize)
}

func TestLoad_InvalidYAML_ConfigError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("search: ["), 0o644))

	_, err := Load(dir)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "search:\n  max_results: 10\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0o644))
	t.Setenv("NOTEDEX_MAX_RESULTS", "7")
	t.Setenv("NOTEDEX_LOG_LEVEL", "debug")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.MaxResults)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvDebounceDuration(t *testing.T) {
	t.Setenv("NOTEDEX_WATCH_DEBOUNCE", "2s")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Vault.WatchDebounce)
}

func TestLoad_BadEnvValue_Ignored(t *testing.T) {
	t.Setenv("NOTEDEX_MAX_RESULTS", "not-a-number")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Search.MaxResults)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dir", func(c *Config) { c.Vault.Dir = "" }},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }},
		{"negative cache", func(c *Config) { c.Search.CacheSize = -1 }},
		{"negative debounce", func(c *Config) { c.Vault.WatchDebounce = -time.Second }},
		{"zero file size", func(c *Config) { c.Vault.MaxFileSizeKB = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestSave_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Vault.Dir = dir
	cfg.Search.MaxResults = 13

	require.NoError(t, cfg.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 13, loaded.Search.MaxResults)
}
