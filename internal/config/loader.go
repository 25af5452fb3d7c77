package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"style":         "output.style",
	"backend":       "outline.backend",
	"include-async": "outline.include_async",
	"errors":        "errors.mode",
	"debounce":      "watch.debounce",
	"format":        "docs.format",
}

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file, environment variables and flags.
	// Priority: defaults → config file → environment variables → flags
	Load() (*Config, error)

	// ConfigFileUsed returns the config file read by the last Load, if any.
	ConfigFileUsed() string
}

type loader struct {
	rootDir    string
	configFile string
	flags      *pflag.FlagSet
	used       string
}

// LoaderOption configures a Loader.
type LoaderOption func(*loader)

// WithConfigFile reads exactly this file instead of searching for .pyoutline.yaml.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithFlags lets explicitly set flags override file and environment values.
func WithFlags(flags *pflag.FlagSet) LoaderOption {
	return func(l *loader) {
		l.flags = flags
	}
}

// NewLoader creates a new configuration loader rooted at rootDir.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{rootDir: rootDir}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Flags that were set explicitly
// 2. Environment variables (PYOUTLINE_*)
// 3. Config file (.pyoutline.yaml in rootDir, then $HOME, or --config)
// 4. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(".pyoutline")
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	// Replace . with _ in env var names (e.g., PYOUTLINE_OUTPUT_STYLE)
	v.SetEnvPrefix("PYOUTLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("output.style")
	v.BindEnv("outline.backend")
	v.BindEnv("outline.include_async")
	v.BindEnv("outline.runtime_dir")
	v.BindEnv("errors.mode")
	v.BindEnv("watch.debounce")
	v.BindEnv("cache.capacity")
	v.BindEnv("docs.format")

	setDefaults(v)

	if l.flags != nil {
		for name, key := range flagKeys {
			if flag := l.flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	l.used = v.ConfigFileUsed()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (l *loader) ConfigFileUsed() string {
	return l.used
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("output.style", defaults.Output.Style)

	v.SetDefault("outline.backend", defaults.Outline.Backend)
	v.SetDefault("outline.include_async", defaults.Outline.IncludeAsync)
	v.SetDefault("outline.runtime_dir", defaults.Outline.RuntimeDir)

	v.SetDefault("errors.mode", defaults.Errors.Mode)

	v.SetDefault("watch.debounce", defaults.Watch.Debounce)

	v.SetDefault("cache.capacity", defaults.Cache.Capacity)

	v.SetDefault("docs.format", defaults.Docs.Format)
}
