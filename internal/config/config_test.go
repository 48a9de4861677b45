package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0600))
	return dir
}

func TestDefaults(t *testing.T) {
	t.Cleanup(ResetForTesting)
	require.NoError(t, Initialize(""))

	tests := []struct {
		key      string
		expected string
	}{
		{KeyPrefix, "d"},
		{KeyDefaultFormat, "auto"},
		{KeyDefaultAuthor, ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetString(tt.key))
		})
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	t.Cleanup(ResetForTesting)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestConfigFile(t *testing.T) {
	t.Cleanup(ResetForTesting)
	dir := writeConfig(t, `
prefix = "adr"
default_author = "ann"
default_format = "json"
`)
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Config{Prefix: "adr", DefaultAuthor: "ann", DefaultFormat: "json"}, cfg)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Cleanup(ResetForTesting)
	dir := writeConfig(t, `prefix = "adr"`)
	t.Setenv("DICTUM_PREFIX", "env")
	t.Setenv("DICTUM_DEFAULT_FORMAT", "jsonl")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.Prefix)
	assert.Equal(t, "jsonl", cfg.DefaultFormat)
}

func TestMalformedConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `prefix = `},
		{"empty prefix", `prefix = ""`},
		{"unknown format", `default_format = "yaml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(ResetForTesting)
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	t.Cleanup(ResetForTesting)
	dir := t.TempDir()
	require.NoError(t, Write(dir, Default()))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `prefix = "d"`)
	assert.NotContains(t, string(data), "default_author")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestResolveAuthor(t *testing.T) {
	t.Cleanup(ResetForTesting)
	t.Setenv("DICTUM_DEFAULT_AUTHOR", "")
	t.Setenv("DICTUM_ACTOR", "")
	t.Setenv("USER", "")
	require.NoError(t, Initialize(""))

	assert.Equal(t, "unknown", ResolveAuthor(""))

	t.Setenv("USER", "sys")
	assert.Equal(t, "sys", ResolveAuthor(""))

	t.Setenv("DICTUM_ACTOR", "agent")
	assert.Equal(t, "agent", ResolveAuthor(""))

	Set(KeyDefaultAuthor, "configured")
	assert.Equal(t, "configured", ResolveAuthor(""))

	assert.Equal(t, "flag", ResolveAuthor("  flag "))
}
