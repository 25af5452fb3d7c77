package config

import (
	"time"

	"github.com/mvp-joe/py-outline/internal/docgen"
	"github.com/mvp-joe/py-outline/internal/outline"
)

const (
	// BackendTreeSitter outlines files with the tree-sitter Python grammar.
	BackendTreeSitter = "treesitter"

	// BackendCPython outlines files with the ast module of an embedded CPython.
	BackendCPython = "cpython"

	// ErrorModeRecord prints failures as {"error": ...} records.
	ErrorModeRecord = "record"

	// ErrorModeAbort prints nothing on stdout and reports failures on stderr.
	ErrorModeAbort = "abort"
)

// Config represents the complete pyoutline configuration.
// It can be loaded from .pyoutline.yaml with environment variable overrides.
type Config struct {
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Outline OutlineConfig `yaml:"outline" mapstructure:"outline"`
	Errors  ErrorsConfig  `yaml:"errors" mapstructure:"errors"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Docs    DocsConfig    `yaml:"docs" mapstructure:"docs"`
}

// OutputConfig controls record serialization.
type OutputConfig struct {
	Style string `yaml:"style" mapstructure:"style"` // "python", "compact" or "pretty"
}

// OutlineConfig controls what the extractor reports and how.
type OutlineConfig struct {
	Backend      string `yaml:"backend" mapstructure:"backend"`             // "treesitter" or "cpython"
	IncludeAsync bool   `yaml:"include_async" mapstructure:"include_async"` // report async def functions
	RuntimeDir   string `yaml:"runtime_dir" mapstructure:"runtime_dir"`     // embedded python location, empty means user cache dir
}

// ErrorsConfig controls how operational failures surface.
type ErrorsConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"` // "record" or "abort"
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// CacheConfig configures the in-memory result cache used by watch and mcp.
type CacheConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity"` // 0 disables caching
}

// DocsConfig configures the docs command.
type DocsConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "markdown" or "html"
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Style: string(outline.StylePython),
		},
		Outline: OutlineConfig{
			Backend:      BackendTreeSitter,
			IncludeAsync: false,
			RuntimeDir:   "",
		},
		Errors: ErrorsConfig{
			Mode: ErrorModeRecord,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Cache: CacheConfig{
			Capacity: 256,
		},
		Docs: DocsConfig{
			Format: string(docgen.FormatMarkdown),
		},
	}
}
