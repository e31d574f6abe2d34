// Package tool provides a registry for callable tools exposed to the
// reasoning engine during chain-of-action runs.
//
// Tools are registered with a name, description, JSON Schema parameters,
// and a handler. The fluent Func helper generates the parameter schema
// from a typed handler's argument struct:
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("calc", "Evaluate an arithmetic expression",
//	        func(ctx context.Context, args CalcArgs) (string, error) {
//	            return evaluate(args.Expression)
//	        }),
//	)
//
// Registration order is preserved: the advisor enumerates tool names
// into response schemas and prompts, and those enumerations must be
// stable across runs.
//
// Execute captures handler errors in the ToolResult rather than failing
// the run, so the model can observe the failure and recover.
package tool
