package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mvp-joe/py-outline/internal/config"
	"github.com/mvp-joe/py-outline/internal/outline"
	"github.com/mvp-joe/py-outline/internal/watcher"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Print the outline of a file every time it changes",
	Long: `Print the outline of a Python file once, then print it again each time
the file is written, created or replaced. Bursts of writes are coalesced
using the debounce interval.

Failures are reported per change and never stop the watch.

Example:
  pyoutline watch app/models.py --debounce 500ms`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", config.Default().Watch.Debounce, "quiet period before re-outlining a changed file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	backend, closeBackend, err := newCachedBackend(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create outline backend: %w", err)
	}
	defer closeBackend()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchFile(ctx, cfg, backend, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// watchFile prints the outline of path now and after every change until
// ctx is done.
func watchFile(ctx context.Context, cfg *config.Config, backend outline.Backend, path string, stdout, stderr io.Writer) error {
	w, err := watcher.NewFileWatcher(path, cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	defer w.Stop()

	enc := outline.NewEncoder(stdout, outline.Style(cfg.Output.Style))

	var mu sync.Mutex
	emit := func(changed string) {
		mu.Lock()
		defer mu.Unlock()
		emitOutline(ctx, cfg, backend, changed, enc, stderr)
	}

	emit(path)

	if err := w.Start(ctx, emit); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if verbose {
		log.Printf("Watching %s", path)
	}

	<-ctx.Done()
	return nil
}
