package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mvp-joe/py-outline/internal/config"
	"github.com/mvp-joe/py-outline/internal/outline"
	"github.com/schollz/progressbar/v3"
)

// newBackend builds the outline backend selected by the configuration.
// In verbose mode the cpython runtime is unpacked up front with a spinner
// on stderr.
func newBackend(cfg *config.Config, stderr io.Writer) (outline.Backend, error) {
	opts := []outline.Option{outline.WithIncludeAsync(cfg.Outline.IncludeAsync)}

	switch cfg.Outline.Backend {
	case config.BackendCPython:
		dir, err := pythonRuntimeDir(cfg)
		if err != nil {
			return nil, err
		}
		backend := outline.NewCPythonBackend(dir, opts...)
		if verbose {
			if err := prepareRuntime(backend, stderr); err != nil {
				return nil, err
			}
		}
		return backend, nil
	case config.BackendTreeSitter:
		return outline.NewExtractor(opts...), nil
	default:
		return nil, fmt.Errorf("unknown outline backend %q", cfg.Outline.Backend)
	}
}

// newCachedBackend wraps the configured backend in a result cache for
// commands that outline the same files repeatedly. The returned func
// releases the cache.
func newCachedBackend(cfg *config.Config, stderr io.Writer) (outline.Backend, func(), error) {
	backend, err := newBackend(cfg, stderr)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Cache.Capacity == 0 {
		return backend, func() {}, nil
	}

	cache, err := outline.NewCache(backend, cfg.Cache.Capacity)
	if err != nil {
		return nil, nil, err
	}
	return cache, cache.Close, nil
}

// pythonRuntimeDir returns where the embedded interpreter is unpacked.
func pythonRuntimeDir(cfg *config.Config) (string, error) {
	if cfg.Outline.RuntimeDir != "" {
		return cfg.Outline.RuntimeDir, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "pyoutline", "python"), nil
}

type preparer interface {
	Prepare() error
}

// prepareRuntime runs p.Prepare while spinning a progress indicator on w.
func prepareRuntime(p preparer, w io.Writer) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Unpacking embedded Python"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)

	done := make(chan error, 1)
	go func() {
		done <- p.Prepare()
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			return err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
