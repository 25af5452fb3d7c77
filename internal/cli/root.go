package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mvp-joe/py-outline/internal/config"
	"github.com/mvp-joe/py-outline/internal/outline"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd outlines the file named by its first argument.
var rootCmd = &cobra.Command{
	Use:   "pyoutline [file]",
	Short: "Print a JSON outline of the functions and classes in a Python file",
	Long: `pyoutline parses one Python source file and prints a single JSON record
listing every function (name, positional parameters, line span) and every
class (name, line span) it declares.

Without a file argument it prints {"error": "No file path provided"}.
Arguments after the first are ignored.

Example:
  pyoutline app/models.py`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runOutline,
}

// exitError carries a process exit status for a failure that has already
// been reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.pyoutline.yaml, then $HOME/.pyoutline.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("style", string(outline.StylePython), "output style: python, compact or pretty")
	rootCmd.PersistentFlags().String("backend", config.BackendTreeSitter, "outline backend: treesitter or cpython")
	rootCmd.PersistentFlags().Bool("include-async", false, "report async def functions")
	rootCmd.PersistentFlags().String("errors", config.ErrorModeRecord, "failure handling: record or abort")
}

// loadConfig reads configuration for cmd, letting explicitly set flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	opts := []config.LoaderOption{config.WithFlags(cmd.Flags())}
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}

	l := config.NewLoader(wd, opts...)
	cfg, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose && l.ConfigFileUsed() != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", l.ConfigFileUsed())
	}
	return cfg, nil
}

func runOutline(cmd *cobra.Command, args []string) error {
	// The usage record does not depend on configuration, so a broken
	// config file or environment cannot change or suppress it.
	if len(args) == 0 {
		if code := usageRecord(cmd.OutOrStdout(), cmd.ErrOrStderr()); code != 0 {
			return &exitError{code: code}
		}
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if code := outlineFile(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr()); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// outlineFile writes exactly one record for path to stdout, or in abort
// mode a diagnostic to stderr, and returns the process exit status.
func outlineFile(ctx context.Context, cfg *config.Config, path string, stdout, stderr io.Writer) int {
	if path == "" {
		return usageRecord(stdout, stderr)
	}

	enc := outline.NewEncoder(stdout, outline.Style(cfg.Output.Style))

	backend, err := newBackend(cfg, stderr)
	if err != nil {
		return reportFailure(cfg, enc, stderr, err)
	}
	return emitOutline(ctx, cfg, backend, path, enc, stderr)
}

// usageRecord writes the fixed "No file path provided" record. It always
// uses the python style.
func usageRecord(stdout, stderr io.Writer) int {
	if err := outline.NewEncoder(stdout, outline.StylePython).EncodeError(outline.ErrNoPath); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// emitOutline extracts path with backend and writes the record.
func emitOutline(ctx context.Context, cfg *config.Config, backend outline.Backend, path string, enc *outline.Encoder, stderr io.Writer) int {
	result, err := backend.ExtractFile(ctx, path)
	if err != nil {
		return reportFailure(cfg, enc, stderr, err)
	}

	if err := enc.EncodeResult(result); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// reportFailure surfaces an operational failure according to errors.mode.
func reportFailure(cfg *config.Config, enc *outline.Encoder, stderr io.Writer, err error) int {
	if cfg.Errors.Mode == config.ErrorModeAbort {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	if encErr := enc.EncodeError(err); encErr != nil {
		fmt.Fprintln(stderr, "Error:", encErr)
	}
	return 1
}
