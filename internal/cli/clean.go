package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var cleanQuietFlag bool

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the unpacked embedded Python runtime",
	Long: `Clean removes the directory the cpython backend unpacks its embedded
interpreter into. The next run with --backend cpython unpacks it again.

The directory is outline.runtime_dir when set, otherwise pyoutline/python
under the user cache directory.

Examples:
  # Remove the runtime
  pyoutline clean

  # Remove with minimal output
  pyoutline clean --quiet
`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVarP(&cleanQuietFlag, "quiet", "q", false, "Suppress output messages")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dir, err := pythonRuntimeDir(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cleanQuietFlag {
		out = io.Discard
	}
	return cleanRuntime(dir, out)
}

// cleanRuntime deletes dir and reports how much was freed.
func cleanRuntime(dir string, out io.Writer) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Fprintln(out, "No embedded Python runtime found")
		return nil
	}

	sizeMB, err := dirSizeMB(dir)
	if err != nil {
		sizeMB = 0
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove runtime: %w", err)
	}

	if sizeMB > 0 {
		fmt.Fprintf(out, "✓ Removed embedded Python runtime (~%.1f MB)\n", sizeMB)
	} else {
		fmt.Fprintln(out, "✓ Removed embedded Python runtime")
	}
	fmt.Fprintf(out, "Next run with --backend cpython will unpack it to %s\n", dir)
	return nil
}

// dirSizeMB sums the sizes of the regular files under dir.
func dirSizeMB(dir string) (float64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err == nil {
			total += info.Size()
		}
		return nil
	})
	return float64(total) / (1024 * 1024), err
}
