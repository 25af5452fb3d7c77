package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/py-outline/internal/outline"
)

// OutlineToolName is the name the outline tool is registered under.
const OutlineToolName = "python_outline"

// AddPythonOutlineTool registers the python_outline tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddPythonOutlineTool(s *server.MCPServer, backend outline.Backend, style outline.Style) {
	tool := mcp.NewTool(
		OutlineToolName,
		mcp.WithDescription(`Outline a single Python source file.

Returns one JSON record listing every function (name, positional parameter
names, start and end line) and every class (name, start and end line).
Lines are 1-based and inclusive. Nested declarations are listed after the
declarations that contain them.

Example result:
{"functions": [{"name": "f", "params": ["a", "b"], "start": 1, "end": 2}], "classes": []}`),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the Python file to outline")),
		mcp.WithString("style",
			mcp.Description("Output style: python (default), compact or pretty")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createOutlineHandler(backend, style))
}

// createOutlineHandler creates the handler function for the python_outline tool.
// Extraction failures are reported as tool errors, not protocol errors.
func createOutlineHandler(backend outline.Backend, style outline.Style) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		outputStyle, err := parseStyleArg(argsMap, style)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := backend.ExtractFile(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var buf bytes.Buffer
		if err := outline.NewEncoder(&buf, outputStyle).EncodeResult(result); err != nil {
			return nil, fmt.Errorf("failed to encode outline: %w", err)
		}

		// Return as text result (mcp-go convention)
		return mcp.NewToolResultText(strings.TrimSuffix(buf.String(), "\n")), nil
	}
}
