// Command toolserver is an MCP server that exposes the chainact example
// tools (calc, compound, stats) over stdio.
//
// It is the tool sidecar for delegated tool mode: register it with an
// engine and the reasoning transport launches it as an MCP server, so
// the model calls the tools natively.
//
// Usage:
//
//	go build -o toolserver ./cmd/toolserver
//	engine.RegisterToolServer("chainact-tools", "./toolserver")
package main

import (
	"log"

	"github.com/spetersoncode/chainact/mathtools"
	"github.com/spetersoncode/chainact/mcp"
)

func main() {
	if err := mcp.ServeStdio(mathtools.Registry(),
		mcp.WithName("chainact-tools"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}
