// Package claudecli implements the provider contract on top of the
// Claude CLI. A run maps to one CLI session: the first call creates it,
// later calls resume it with only the new conversation content, and the
// CLI executes MCP tools natively so tool usage is observed from the
// event stream rather than dispatched by the engine.
package claudecli
