package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// createJSONResponse marshals data into a single text content block.
func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// createErrorResponse reports a tool failure as structured content rather
// than a protocol error, so callers can retry with corrected parameters.
func createErrorResponse(operation, message string) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"success":   false,
		"operation": operation,
		"error":     message,
	})
}
