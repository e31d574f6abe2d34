// Package trace renders a completed execution as a markdown report.
//
// The report covers the step-by-step trace, the action type
// distribution, the transition matrix, adherence rates, and per-action
// cost. It is meant to be written to a file after a run:
//
//	run, err := eng.Run(ctx, task, p)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("TRACE.md", []byte(trace.Render(run)), 0o644)
package trace

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	ca "github.com/spetersoncode/chainact"
)

const maxResponseChars = 200

// Render produces a markdown report for a completed run.
func Render(run *ca.ExecutionContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Chain-of-Action Execution Trace\n\n")
	fmt.Fprintf(&b, "**Task**: %s\n", run.Task)
	fmt.Fprintf(&b, "**Total turns**: %d\n", run.TurnCount)
	fmt.Fprintf(&b, "**Total steps**: %d\n\n", len(run.Steps))

	renderSteps(&b, run)
	renderDistribution(&b, run)
	renderTransitions(&b, run)
	renderAdherence(&b, run)
	renderCosts(&b, run)

	return b.String()
}

func renderSteps(b *strings.Builder, run *ca.ExecutionContext) {
	fmt.Fprintf(b, "## Step-by-Step Trace\n\n")
	for i, step := range run.Steps {
		fmt.Fprintf(b, "### Step %d: [%s]\n\n", i+1, step.ActionType)
		fmt.Fprintf(b, "**Thinking**: %s\n\n", step.Thinking)
		fmt.Fprintf(b, "**Response**: %s\n\n", truncate(step.Response, maxResponseChars))
		for _, call := range step.ToolCalls {
			fmt.Fprintf(b, "**Tool**: `%s(%s)`\n", call.Name, formatArgs(call.Args))
			fmt.Fprintf(b, "**Result**: `%s`\n\n", call.Result)
		}
		if step.PlannedType != "" {
			fmt.Fprintf(b, "**Planned**: [%s]\n\n", step.PlannedType)
		}
		if len(step.Recommendation) > 0 {
			followed := "No"
			if step.FollowedRecommendation {
				followed = "Yes"
			}
			fmt.Fprintf(b, "**Recommendation**: %s | **Followed**: %s\n\n",
				strings.Join(step.Recommendation, ", "), followed)
		}
		fmt.Fprintf(b, "---\n\n")
	}
}

func renderDistribution(b *strings.Builder, run *ca.ExecutionContext) {
	fmt.Fprintf(b, "## Action Type Distribution\n\n")
	fmt.Fprintf(b, "| Action Type | Count |\n")
	fmt.Fprintf(b, "|---|---|\n")
	counts := run.ActionTypeCounts()
	for _, name := range sortedKeys(counts) {
		fmt.Fprintf(b, "| %s | %d |\n", name, counts[name])
	}
	fmt.Fprintf(b, "\n")
}

func renderTransitions(b *strings.Builder, run *ca.ExecutionContext) {
	fmt.Fprintf(b, "## Transition Matrix\n\n")
	matrix := run.TransitionMatrix()
	if len(matrix) == 0 {
		fmt.Fprintf(b, "No transitions recorded.\n\n")
		return
	}

	seen := map[string]bool{}
	for src, targets := range matrix {
		seen[src] = true
		for dst := range targets {
			seen[dst] = true
		}
	}
	types := sortedKeys(seen)

	fmt.Fprintf(b, "| From \\ To | %s |\n", strings.Join(types, " | "))
	fmt.Fprintf(b, "|---|%s|\n", strings.Repeat("---|", len(types)))
	for _, src := range types {
		fmt.Fprintf(b, "| %s |", src)
		for _, dst := range types {
			if count := matrix[src][dst]; count > 0 {
				fmt.Fprintf(b, " %d |", count)
			} else {
				fmt.Fprintf(b, " - |")
			}
		}
		fmt.Fprintf(b, "\n")
	}
	fmt.Fprintf(b, "\n")
}

func renderAdherence(b *strings.Builder, run *ca.ExecutionContext) {
	fmt.Fprintf(b, "## Adherence Rate\n\n")
	fmt.Fprintf(b, "**%.0f%%** of steps followed the recommended action type.\n\n",
		run.RecommendationAdherence()*100)
	if len(run.Plan) > 0 {
		fmt.Fprintf(b, "**%.0f%%** of plan steps were executed in order.\n\n",
			run.PlanAdherence()*100)
	}
}

func renderCosts(b *strings.Builder, run *ca.ExecutionContext) {
	fmt.Fprintf(b, "## Cost per Action Type\n\n")
	fmt.Fprintf(b, "| Action Type | Calls | Cost (USD) | Duration (ms) |\n")
	fmt.Fprintf(b, "|---|---|---|---|\n")
	var totalCost float64
	var totalCalls, totalDuration int64
	for _, name := range sortedKeys(run.CostStats) {
		stats := run.CostStats[name]
		fmt.Fprintf(b, "| %s | %d | $%.4f | %d |\n", name, stats.Calls, stats.CostUSD, stats.DurationMS)
		totalCost += stats.CostUSD
		totalCalls += int64(stats.Calls)
		totalDuration += stats.DurationMS
	}
	fmt.Fprintf(b, "| **Total** | **%d** | **$%.4f** | **%d** |\n\n", totalCalls, totalCost, totalDuration)
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
