package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/py-outline/internal/mcp"
	"github.com/mvp-joe/py-outline/internal/outline"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server exposing the python_outline tool",
	Long: `Start a Model Context Protocol (MCP) server on stdio so coding assistants
can request the outline of a Python file.

The MCP server:
- Registers the python_outline tool, which takes a "path" argument
- Returns the same record the CLI prints, in the configured style
- Caches outlines by file content for the life of the process

Example:
  pyoutline mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	backend, closeBackend, err := newCachedBackend(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create outline backend: %w", err)
	}
	defer closeBackend()

	fmt.Fprintf(os.Stderr, "pyoutline MCP Server\n")
	fmt.Fprintf(os.Stderr, "Backend: %s\n", cfg.Outline.Backend)
	fmt.Fprintf(os.Stderr, "\n")

	server := mcp.NewServer(backend, outline.Style(cfg.Output.Style), Version)
	return server.Serve(cmd.Context())
}
