package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mvp-joe/py-outline/internal/outline"
)

// parseToolArguments validates and extracts the arguments map from an MCP tool request.
// Returns the arguments map or an error result if validation fails.
func parseToolArguments(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, mcp.NewToolResultError("invalid arguments format")
	}
	return argsMap, nil
}

// parseStringArg extracts a string argument from an MCP arguments map.
// Returns an error if the argument is required but missing or invalid.
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}

	if required && strings.TrimSpace(str) == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	return str, nil
}

// parseStyleArg resolves the optional style argument, falling back to def.
func parseStyleArg(argsMap map[string]interface{}, def outline.Style) (outline.Style, error) {
	raw, err := parseStringArg(argsMap, "style", false)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return def, nil
	}

	for _, style := range outline.Styles {
		if string(style) == raw {
			return style, nil
		}
	}
	return "", fmt.Errorf("style must be one of %v", outline.Styles)
}
