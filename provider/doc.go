// Package provider defines the reasoning-engine contract used by the
// execution engine, along with optional capability interfaces for
// session management and native tool channels.
//
// Three transports implement the contract:
//
//   - claudecli: drives the Claude CLI as a subprocess, with session
//     resumption and native MCP tool execution.
//   - anthropic: the Anthropic SDK, structured output via a forced tool.
//   - openai: the OpenAI SDK, structured output via a JSON Schema
//     response format.
//
// The engine discovers optional capabilities by type assertion, so a
// provider implements only what its transport supports.
package provider
