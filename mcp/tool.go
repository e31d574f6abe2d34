// Package mcp bridges chainact tool registries to the Model Context
// Protocol in both directions.
//
//   - Server: expose a [tool.Registry] as an MCP server. In delegated
//     tool mode the reasoning transport launches this server as a
//     sidecar and its model calls the tools natively.
//   - Client: connect to an external MCP server through
//     [RemoteRegistry] and hand its tools to an engine running in
//     in-process mode.
//
// # Serving a registry
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("calc", "Evaluate an expression", calcHandler),
//	    tool.Func("stats", "Summary statistics", statsHandler),
//	)
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
//
// # Consuming a server
//
//	remote, err := mcp.NewRemoteRegistry(ctx, "./toolserver", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	ca "github.com/spetersoncode/chainact"
)

// ToMCPTool converts a chainact Tool to an MCP Tool. The parameter
// JSON schema carries through unchanged as the raw input schema.
func ToMCPTool(t ca.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// ToMCPTools converts a slice of chainact Tools to MCP Tools.
func ToMCPTools(tools []ca.Tool) []mcp.Tool {
	result := make([]mcp.Tool, len(tools))
	for i, t := range tools {
		result[i] = ToMCPTool(t)
	}
	return result
}

// FromMCPTool converts an MCP Tool to a chainact Tool, taking the raw
// input schema when present and marshaling the structured schema
// otherwise.
func FromMCPTool(t mcp.Tool) ca.Tool {
	var schema json.RawMessage
	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		schema = data
	}

	return ca.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// FromMCPTools converts a slice of MCP Tools to chainact Tools.
func FromMCPTools(tools []mcp.Tool) []ca.Tool {
	result := make([]ca.Tool, len(tools))
	for i, t := range tools {
		result[i] = FromMCPTool(t)
	}
	return result
}

// ToMCPCallToolRequest converts a chainact ToolCall to an MCP
// CallToolRequest. Arguments that fail to parse as JSON pass through
// as a plain string.
func ToMCPCallToolRequest(call ca.ToolCall) mcp.CallToolRequest {
	var args any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = call.Arguments
		}
	}

	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// FromMCPCallToolResult converts an MCP CallToolResult to a chainact
// ToolResult, concatenating text content blocks.
func FromMCPCallToolResult(callID string, result *mcp.CallToolResult) ca.ToolResult {
	if result == nil {
		return ca.ToolResult{
			ToolCallID: callID,
			IsError:    true,
		}
	}

	var textParts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			textParts = append(textParts, content.Text)
		case *mcp.TextContent:
			textParts = append(textParts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				textParts = append(textParts, string(data))
			}
		}
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			textParts = append(textParts, string(data))
		}
	}

	return ca.ToolResult{
		ToolCallID: callID,
		Content:    strings.Join(textParts, "\n"),
		IsError:    result.IsError,
	}
}

// ToMCPCallToolResult converts a chainact ToolResult to an MCP
// CallToolResult.
func ToMCPCallToolResult(result ca.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}
