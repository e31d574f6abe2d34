package provider

import (
	"context"
	"encoding/json"

	ca "github.com/spetersoncode/chainact"
)

// Response is the parsed outcome of one reasoning-engine call.
type Response struct {
	// Fields is the structured output parsed against the requested
	// schema. It is nil when the engine produced no parseable
	// structured output; that is not an error at this layer.
	Fields map[string]any
	// Usage holds the call's cost and timing figures.
	Usage ca.TokenUsage
	// Invocations lists tool calls the engine executed natively over
	// its own channel during this call, in execution order. Empty for
	// transports without native tool execution.
	Invocations []ca.ToolInvocation
	// Raw is the unparsed response text, kept for diagnostics.
	Raw string
	// SessionID identifies the conversation session, for transports
	// that maintain one.
	SessionID string
}

// Provider is the reasoning-engine contract. A provider receives the
// conversation so far, per-turn instructions, and a JSON Schema the
// structured response must satisfy.
//
// Call returns an error only for transport failures. A reachable engine
// that produced malformed output yields a Response with nil Fields.
type Provider interface {
	Call(ctx context.Context, messages []ca.Message, instructions string, schema json.RawMessage) (*Response, error)
}

// SessionProvider is implemented by providers that maintain conversation
// state between calls. The engine resets the session at the start of
// every run.
type SessionProvider interface {
	ResetSession()
}

// ToolChannelProvider is implemented by providers that can execute tools
// natively over an external channel, such as an MCP server. The engine
// sets the channel up before the loop and always tears it down after.
type ToolChannelProvider interface {
	SetupTools(ctx context.Context, name string, command []string) error
	CleanupTools(ctx context.Context) error
}
