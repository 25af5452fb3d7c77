package watcher

import "context"

// FileWatcher monitors one source file for changes with debouncing.
type FileWatcher interface {
	// Start begins watching, calling callback with the watched path once
	// changes have been quiet for the debounce interval.
	Start(ctx context.Context, callback func(path string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error
}
