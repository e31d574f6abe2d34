// Package chainact coordinates a multi-turn, tool-using agent through a task
// with soft action guidance.
//
// Instead of enforcing a hard state machine, chainact asks the reasoning
// engine to self-classify every action it takes against a catalog of action
// types, offers non-binding recommendations for what to do next, and records
// how closely the agent's free-form behavior tracked the guidance.
//
// # Core Pieces
//
// The root package holds the shared data model:
//
//   - [ActionType] and [Catalog]: the registry of known action types and
//     their suggested successors. Suggestions are metadata, never gates.
//   - [ActionStep] and [ExecutionContext]: the per-run trace and the
//     analytics derived from it (histogram, transition matrix, adherence).
//   - [TokenUsage] and [TokenStats]: per-call and accumulated cost figures.
//
// Behavior lives in subpackages:
//
//   - [github.com/spetersoncode/chainact/advisor]: turns catalog + history +
//     optional plan into per-turn guidance text and a response schema.
//   - [github.com/spetersoncode/chainact/engine]: drives the turn loop,
//     executes tools, and owns termination.
//   - [github.com/spetersoncode/chainact/track]: accumulates cost per
//     action type.
//   - [github.com/spetersoncode/chainact/provider]: the reasoning-engine
//     contract, with Claude CLI, Anthropic SDK, and OpenAI SDK transports.
//   - [github.com/spetersoncode/chainact/tool]: in-process tool registry.
//   - [github.com/spetersoncode/chainact/mcp]: expose registered tools as an
//     MCP stdio server for natively tool-calling engines.
//
// # Basic Usage
//
//	catalog := chainact.DefaultCatalog()
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("calc", "Evaluate arithmetic", calcHandler),
//	)
//
//	eng := engine.New(catalog, engine.WithRegistry(registry))
//	llm := claudecli.New(claudecli.WithModel("haiku"))
//
//	run, err := eng.Run(context.Background(), task, llm,
//	    engine.WithMaxTurns(15),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(run.ActionTypeCounts())
//	fmt.Println(run.RecommendationAdherence())
//
// The agent may ignore every recommendation; the point is to measure whether
// it did, not to stop it.
package chainact
