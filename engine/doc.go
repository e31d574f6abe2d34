// Package engine runs the chain-of-action loop.
//
// A run optionally opens with a plan-generation call, then executes
// turns until the agent signals completion, declares the terminal action
// type, or the turn budget runs out. Every turn asks the provider for
// structured output, records the self-declared action type with its
// cost, and offers soft guidance for the next turn.
//
// Failures degrade rather than abort: a bad provider call or invalid
// structured output becomes an "unknown" step, a tool fault becomes an
// error string in the tool result, and a failed plan silently falls back
// to no-plan guidance. Only tool-channel setup before the loop is fatal.
package engine
