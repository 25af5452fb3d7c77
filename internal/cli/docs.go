package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mvp-joe/py-outline/internal/config"
	"github.com/mvp-joe/py-outline/internal/docgen"
	"github.com/mvp-joe/py-outline/internal/outline"
	"github.com/spf13/cobra"
)

var docsOutputFlag string

// docsCmd represents the docs command
var docsCmd = &cobra.Command{
	Use:   "docs <file>",
	Short: "Generate Markdown or HTML documentation for a Python file",
	Long: `Docs outlines a Python file and writes a documentation page for it:
an overview from the leading comments and module docstring, the imports,
and a section per function and class with parameters, return annotation,
methods, properties and a short description of what the code does.

The page is saved next to the file as <file>.md, or <file>.html with
--format html. Use --output - to print it instead.

Examples:
  # Write app/models.py.md
  pyoutline docs app/models.py

  # Print HTML to stdout
  pyoutline docs app/models.py --format html -o -
`,
	Args: cobra.ExactArgs(1),
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.Flags().String("format", config.Default().Docs.Format, "documentation format: markdown or html")
	docsCmd.Flags().StringVarP(&docsOutputFlag, "output", "o", "", "output file, - for stdout (default <file>.md or <file>.html)")
}

func runDocs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	backend, err := newBackend(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create outline backend: %w", err)
	}

	return generateDocs(cmd.Context(), backend, args[0], docgen.Format(cfg.Docs.Format), docsOutputFlag, cmd.OutOrStdout())
}

// generateDocs documents path and writes the page to output, which is a
// file path, "-" for stdout, or empty for the default location.
func generateDocs(ctx context.Context, backend outline.Backend, path string, format docgen.Format, output string, stdout io.Writer) error {
	doc, err := docgen.NewGenerator(backend).Generate(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to document %s: %w", path, err)
	}

	if output == "-" {
		return docgen.Render(stdout, doc, format)
	}
	if output == "" {
		output = docgen.OutputPath(path, format)
	}

	if err := writeDocs(output, doc, format); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Documentation generated and saved to %s\n", output)
	return nil
}

func writeDocs(path string, doc *docgen.Document, format docgen.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := docgen.Render(w, doc, format); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
