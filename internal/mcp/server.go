package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/py-outline/internal/outline"
)

// Server manages the MCP server lifecycle.
type Server struct {
	mcp *server.MCPServer
}

// NewServer creates an MCP server exposing the outline tool.
func NewServer(backend outline.Backend, style outline.Style, version string) *Server {
	mcpServer := server.NewMCPServer(
		"pyoutline",
		version,
		server.WithToolCapabilities(true),
	)

	AddPythonOutlineTool(mcpServer, backend, style)

	return &Server{mcp: mcpServer}
}

// Serve starts the MCP server on stdio and blocks until stdin closes, a
// shutdown signal arrives or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.serve(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(os.Stderr, "", log.LstdFlags))

	log.Printf("Starting MCP server on stdio...")
	err := stdio.Listen(ctx, in, out)
	if ctx.Err() != nil {
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
