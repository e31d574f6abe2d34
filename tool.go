package chainact

import "encoding/json"

// Tool describes a callable tool exposed to the reasoning engine.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does.
	Description string
	// Parameters is a JSON Schema object defining the tool arguments.
	Parameters json.RawMessage
}

// ToolCall is a request from the reasoning engine to invoke a tool.
type ToolCall struct {
	// ID identifies this call so results can be matched to it.
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is a JSON string containing the arguments to pass.
	Arguments string `json:"arguments"`
}

// ToolResult is the outcome of executing a tool call.
type ToolResult struct {
	// ToolCallID matches the ID from the corresponding ToolCall.
	ToolCallID string `json:"toolCallId"`
	// Content is the result content fed back into the conversation.
	Content string `json:"content"`
	// IsError indicates the content describes a failure.
	IsError bool `json:"isError,omitempty"`
}
