package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load() uses defaults when no config file exists
// - Load() reads .pyoutline.yaml from the root directory
// - Load() merges a partial config file with defaults
// - Load() reads an explicit file given WithConfigFile
// - Environment variables override config file values
// - Explicitly set flags override environment variables
// - Unset flags do not override file values
// - Load() returns error for malformed YAML
// - Load() returns error for invalid configuration values
// - Validate() rejects unknown style, backend and error mode
// - Validate() rejects negative debounce and cache capacity
// - Validate() rejects an unknown docs format
// - Validate() returns multiple errors for multiple invalid fields

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".pyoutline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "python", cfg.Output.Style)
	assert.Equal(t, BackendTreeSitter, cfg.Outline.Backend)
	assert.False(t, cfg.Outline.IncludeAsync)
	assert.Equal(t, "", cfg.Outline.RuntimeDir)
	assert.Equal(t, ErrorModeRecord, cfg.Errors.Mode)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 256, cfg.Cache.Capacity)
	assert.Equal(t, "markdown", cfg.Docs.Format)

	assert.NoError(t, Validate(cfg))
}

func TestLoad_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewLoader(t.TempDir()).Load()

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
output:
  style: pretty
outline:
  backend: cpython
  include_async: true
  runtime_dir: /opt/pyoutline
errors:
  mode: abort
watch:
  debounce: 1s
cache:
  capacity: 8
docs:
  format: html
`)

	l := NewLoader(tempDir)
	cfg, err := l.Load()

	require.NoError(t, err)
	assert.Equal(t, "pretty", cfg.Output.Style)
	assert.Equal(t, BackendCPython, cfg.Outline.Backend)
	assert.True(t, cfg.Outline.IncludeAsync)
	assert.Equal(t, "/opt/pyoutline", cfg.Outline.RuntimeDir)
	assert.Equal(t, ErrorModeAbort, cfg.Errors.Mode)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, 8, cfg.Cache.Capacity)
	assert.Equal(t, "html", cfg.Docs.Format)
	assert.Equal(t, filepath.Join(tempDir, ".pyoutline.yaml"), l.ConfigFileUsed())
}

func TestLoad_MergesConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
output:
  style: compact
`)

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, "compact", cfg.Output.Style)
	assert.Equal(t, BackendTreeSitter, cfg.Outline.Backend)
	assert.Equal(t, ErrorModeRecord, cfg.Errors.Mode)
	assert.Equal(t, 256, cfg.Cache.Capacity)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("errors:\n  mode: abort\n"), 0644))

	// A file in the root directory must be ignored when a file is given.
	rootDir := t.TempDir()
	writeConfig(t, rootDir, "errors:\n  mode: record\n")

	cfg, err := NewLoader(rootDir, WithConfigFile(path)).Load()

	require.NoError(t, err)
	assert.Equal(t, ErrorModeAbort, cfg.Errors.Mode)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
output:
  style: compact
cache:
  capacity: 8
`)

	t.Setenv("PYOUTLINE_OUTPUT_STYLE", "pretty")
	t.Setenv("PYOUTLINE_OUTLINE_INCLUDE_ASYNC", "true")
	t.Setenv("PYOUTLINE_WATCH_DEBOUNCE", "750ms")
	t.Setenv("PYOUTLINE_DOCS_FORMAT", "html")

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, "pretty", cfg.Output.Style)
	assert.True(t, cfg.Outline.IncludeAsync)
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 8, cfg.Cache.Capacity)
	assert.Equal(t, "html", cfg.Docs.Format)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "errors:\n  mode: abort\n")
	t.Setenv("PYOUTLINE_OUTPUT_STYLE", "pretty")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("style", "python", "")
	flags.String("errors", "record", "")
	flags.Bool("include-async", false, "")
	require.NoError(t, flags.Parse([]string{"--style", "compact", "--include-async"}))

	cfg, err := NewLoader(tempDir, WithFlags(flags)).Load()

	require.NoError(t, err)
	assert.Equal(t, "compact", cfg.Output.Style)
	assert.True(t, cfg.Outline.IncludeAsync)
	// --errors was not set, so the file value stands
	assert.Equal(t, ErrorModeAbort, cfg.Errors.Mode)
}

func TestLoad_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "output: [style\n")

	_, err := NewLoader(tempDir).Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "outline:\n  backend: jedi\n")

	_, err := NewLoader(tempDir).Load()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBackend)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate_RejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"style", func(c *Config) { c.Output.Style = "yaml" }, ErrInvalidStyle},
		{"backend", func(c *Config) { c.Outline.Backend = "" }, ErrInvalidBackend},
		{"error mode", func(c *Config) { c.Errors.Mode = "panic" }, ErrInvalidErrorMode},
		{"debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, ErrInvalidDebounce},
		{"cache", func(c *Config) { c.Cache.Capacity = -1 }, ErrInvalidCacheSettings},
		{"docs format", func(c *Config) { c.Docs.Format = "pdf" }, ErrInvalidDocsFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.want)
		})
	}
}

func TestValidate_AcceptsZeroCapacity(t *testing.T) {
	cfg := Default()
	cfg.Cache.Capacity = 0
	assert.NoError(t, Validate(cfg))
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Output.Style = "yaml"
	cfg.Errors.Mode = "panic"

	err := Validate(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "invalid output style")
	assert.Contains(t, err.Error(), "invalid error mode")
}
