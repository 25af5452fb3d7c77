package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvp-joe/py-outline/internal/docgen"
	"github.com/mvp-joe/py-outline/internal/outline"
)

var (
	// ErrInvalidStyle indicates an unsupported output style
	ErrInvalidStyle = errors.New("invalid output style")

	// ErrInvalidBackend indicates an unsupported outline backend
	ErrInvalidBackend = errors.New("invalid outline backend")

	// ErrInvalidErrorMode indicates an unsupported error mode
	ErrInvalidErrorMode = errors.New("invalid error mode")

	// ErrInvalidDebounce indicates a negative debounce interval
	ErrInvalidDebounce = errors.New("invalid debounce")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidDocsFormat indicates an unsupported documentation format
	ErrInvalidDocsFormat = errors.New("invalid docs format")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if !validStyle(cfg.Output.Style) {
		errs = append(errs, fmt.Errorf("%w: must be one of %s, got '%s'", ErrInvalidStyle, styleNames(), cfg.Output.Style))
	}

	switch cfg.Outline.Backend {
	case BackendTreeSitter, BackendCPython:
	default:
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidBackend, BackendTreeSitter, BackendCPython, cfg.Outline.Backend))
	}

	switch cfg.Errors.Mode {
	case ErrorModeRecord, ErrorModeAbort:
	default:
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidErrorMode, ErrorModeRecord, ErrorModeAbort, cfg.Errors.Mode))
	}

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce cannot be negative, got %s", ErrInvalidDebounce, cfg.Watch.Debounce))
	}

	// Zero capacity disables caching
	if cfg.Cache.Capacity < 0 {
		errs = append(errs, fmt.Errorf("%w: capacity cannot be negative, got %d", ErrInvalidCacheSettings, cfg.Cache.Capacity))
	}

	if !docgen.Format(cfg.Docs.Format).Valid() {
		errs = append(errs, fmt.Errorf("%w: must be one of %s, got '%s'", ErrInvalidDocsFormat, formatNames(), cfg.Docs.Format))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validStyle(style string) bool {
	for _, s := range outline.Styles {
		if string(s) == style {
			return true
		}
	}
	return false
}

func styleNames() string {
	names := make([]string, len(outline.Styles))
	for i, s := range outline.Styles {
		names[i] = "'" + string(s) + "'"
	}
	return strings.Join(names, ", ")
}

func formatNames() string {
	names := make([]string, len(docgen.Formats))
	for i, f := range docgen.Formats {
		names[i] = "'" + string(f) + "'"
	}
	return strings.Join(names, ", ")
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
