// Command salary runs the chain-of-action salary analysis example and
// writes TRACE.md with the full execution trace, transition matrix,
// adherence rates, and cost per action type.
//
// Usage:
//
//	go run ./cmd/salary                          # in-process tools, Claude CLI
//	go run ./cmd/salary -plan                    # generate a plan first
//	go run ./cmd/salary -toolserver ./toolserver # delegated MCP tools
//	go run ./cmd/salary -provider anthropic      # Anthropic SDK transport
//
// API keys are read from the environment or a .env file: the anthropic
// provider needs ANTHROPIC_API_KEY and the openai provider needs
// OPENAI_API_KEY. The claude provider shells out to the claude CLI and
// needs no key of its own.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	ca "github.com/spetersoncode/chainact"
	"github.com/spetersoncode/chainact/engine"
	"github.com/spetersoncode/chainact/mathtools"
	"github.com/spetersoncode/chainact/provider"
	"github.com/spetersoncode/chainact/provider/anthropic"
	"github.com/spetersoncode/chainact/provider/claudecli"
	"github.com/spetersoncode/chainact/provider/openai"
	"github.com/spetersoncode/chainact/trace"
)

const task = `Three software engineers have the following compensation:
- Alice: $95,000 base salary, 8% annual raise
- Bob: $110,000 base salary, 5% annual raise
- Charlie: $88,000 base salary, 10% annual raise

Compute each engineer's salary after 4 years of compound raises.
Then compute the mean, median, and standard deviation of the three final salaries.
Show all work.`

func main() {
	providerName := flag.String("provider", "claude", "reasoning transport: claude, anthropic, or openai")
	plan := flag.Bool("plan", false, "generate an execution plan before the loop")
	turns := flag.Int("turns", 15, "turn budget, including the plan call")
	toolServer := flag.String("toolserver", "", "path to an MCP tool server binary for delegated tool mode (claude provider only)")
	out := flag.String("out", "TRACE.md", "trace output path")
	flag.Parse()

	godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	p, err := buildProvider(*providerName, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []engine.EngineOption{engine.WithLogger(logger)}
	if *toolServer == "" {
		opts = append(opts, engine.WithRegistry(mathtools.Registry()))
	}
	eng := engine.New(ca.DefaultCatalog(), opts...)
	if *toolServer != "" {
		eng.RegisterToolServer("chainact-tools", []string{*toolServer})
	}

	runOpts := []engine.RunOption{engine.WithMaxTurns(*turns)}
	if *plan {
		runOpts = append(runOpts, engine.WithPlanning())
	}

	fmt.Println("Running chain-of-action salary analysis...")
	fmt.Printf("Task: %.80s...\n\n", task)

	run, err := eng.Run(context.Background(), task, p, runOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(run)

	if err := os.WriteFile(*out, []byte(trace.Render(run)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing trace: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nTrace written to: %s\n", *out)
}

func buildProvider(name string, logger *slog.Logger) (provider.Provider, error) {
	switch name {
	case "claude":
		return claudecli.New(claudecli.WithLogger(logger)), nil
	case "anthropic":
		return anthropic.New(), nil
	case "openai":
		return openai.New(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want claude, anthropic, or openai)", name)
	}
}

func printSummary(run *ca.ExecutionContext) {
	line := strings.Repeat("=", 60)
	fmt.Printf("\n%s\nRESULTS\n%s\n", line, line)
	fmt.Printf("Total steps: %d\n", len(run.Steps))
	fmt.Printf("Action types: %v\n", run.ActionTypeCounts())
	fmt.Printf("Recommendation adherence: %.0f%%\n", run.RecommendationAdherence()*100)
	if len(run.Plan) > 0 {
		fmt.Printf("Plan adherence: %.0f%%\n", run.PlanAdherence()*100)
	}
	fmt.Printf("Total cost: $%.4f\n\n", run.TotalCost())

	for i, step := range run.Steps {
		toolStr := ""
		if call, ok := step.FirstTool(); ok {
			toolStr = fmt.Sprintf(" -> %s(%v)", call.Name, call.Args)
		}
		recStr := ""
		if len(step.Recommendation) > 0 {
			recStr = fmt.Sprintf(" (rec: %s, followed: %t)",
				strings.Join(step.Recommendation, "|"), step.FollowedRecommendation)
		}
		fmt.Printf("  Step %d: [%s]%s%s\n", i+1, step.ActionType, toolStr, recStr)
	}
}
