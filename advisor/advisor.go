package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	ca "github.com/spetersoncode/chainact"
	"github.com/spetersoncode/chainact/schema"
	"github.com/spetersoncode/chainact/tool"
)

// consecutiveNudgeWindow is the number of trailing same-type steps that
// triggers a diversification nudge.
const consecutiveNudgeWindow = 3

// Advisor builds instructions, per-turn recommendations, and structured
// output schemas from an action catalog. It holds no mutable state and
// is safe to share across runs.
//
// A nil registry selects delegated mode: the reasoning engine invokes
// tools natively over its own channel, so the response schema carries no
// tool selection fields and tool usage is observed rather than requested.
type Advisor struct {
	catalog  *ca.Catalog
	registry *tool.Registry
}

// New creates an Advisor over the given catalog. Pass a nil registry for
// delegated tool execution.
func New(catalog *ca.Catalog, registry *tool.Registry) *Advisor {
	return &Advisor{catalog: catalog, registry: registry}
}

// InitialInstructions renders the first-turn system prompt: the action
// type catalog, the available tools, and the self-classification
// contract.
func (a *Advisor) InitialInstructions() string {
	var b strings.Builder

	b.WriteString("You are solving a task step by step. At each step, you choose an action type ")
	b.WriteString("that best describes what you are doing.\n\n")
	b.WriteString(a.catalog.PromptSection())
	b.WriteString("\n\n")
	b.WriteString(a.toolSection())
	b.WriteString("\n\n## How It Works\n")
	b.WriteString("1. Self-classify each action by setting `action_type` to any type from the catalog, or invent a new one if none fit.\n")
	if a.delegated() {
		b.WriteString("2. All MCP tools are always available. Call them directly whenever they help.\n")
	} else {
		b.WriteString("2. Select a tool with `tool_name` and pass its arguments in `tool_args`, or set `tool_name` to \"none\".\n")
	}
	b.WriteString("3. Recommendations are suggestions only. You have full agency.\n")
	b.WriteString("4. Take ONE step per turn. Do not try to finish everything at once.\n")
	fmt.Fprintf(&b, "5. Set `is_done: true` when the task is complete, or use action_type `%s`.\n", a.catalog.TerminalType())

	return b.String()
}

// PlanInstructions renders the plan-generation prompt. The reasoning
// engine is asked for an ordered execution plan over the catalog
// vocabulary, ending with the terminal type.
func (a *Advisor) PlanInstructions() string {
	var b strings.Builder

	b.WriteString("Before executing, produce an execution plan for the task: an ordered list of steps ")
	b.WriteString("drawn from the action type catalog below.\n\n")
	b.WriteString(a.catalog.PromptSection())
	b.WriteString("\n\n## Plan Rules\n")
	b.WriteString("- Each step names one action type and a one-line description of what that step will do.\n")
	b.WriteString("- Keep the plan short and concrete.\n")
	fmt.Fprintf(&b, "- The plan must end with a terminal step: action_type `%s`.\n", a.catalog.TerminalType())

	return b.String()
}

// PlanSchema is the structured output contract for plan generation.
func (a *Advisor) PlanSchema() json.RawMessage {
	return schema.Object().
		Field("thinking", schema.String().
			Desc("Your reasoning about how to break the task into steps.").
			Required()).
		Field("plan", schema.Array(schema.Object().
			Field("action_type", schema.String().
				Desc("Action type for this step, drawn from the catalog.").
				Required()).
			Field("description", schema.String().
				Desc("One line describing what this step will do.").
				Required())).
			Desc("Ordered execution plan, ending with the terminal action type.").
			Required()).
		MustBuild()
}

// ResponseSchema is the structured output contract for execution turns.
// In-process mode adds tool selection fields enumerating the registered
// tool names.
func (a *Advisor) ResponseSchema() json.RawMessage {
	obj := schema.Object().
		Field("action_type", schema.String().
			Desc(fmt.Sprintf(
				"The type of action you are performing. Known types: %s. You may also use a custom type if none fit.",
				strings.Join(a.catalog.TypeNames(), ", "))).
			Required()).
		Field("thinking", schema.String().
			Desc("Your internal reasoning about what to do.").
			Required()).
		Field("response", schema.String().
			Desc("Your response text or the result of your work.").
			Required())

	if !a.delegated() && a.registry.Len() > 0 {
		names := a.registry.Names()
		obj.Field("tool_name", schema.String().
			Enum(append(names, "none")...).
			Desc(fmt.Sprintf(
				"Name of the tool to call, or 'none' if no tool is needed. Available: %s",
				strings.Join(names, ", "))).
			Required()).
			Field("tool_args", schema.Object().
				Desc("Arguments to pass to the selected tool. Empty if tool_name is 'none'.").
				Required())
	}

	obj.Field("is_done", schema.Bool().
		Desc("Set to true when the task is fully complete.").
		Required())

	return obj.MustBuild()
}

// Recommendation renders the soft guidance for the next turn. With a
// plan it points at the current plan step; without one it falls back to
// the catalog's suggested successors of the last action. Neither form
// is binding on the agent.
func (a *Advisor) Recommendation(lastType string, history []ca.ActionStep, plan []ca.PlanStep, cursor int) string {
	var parts []string

	if len(plan) > 0 {
		idx := cursor
		if idx > len(plan)-1 {
			idx = len(plan) - 1
		}
		step := plan[idx]
		parts = append(parts, fmt.Sprintf(
			"Step %d/%d of your plan: [%s] %s. Execute ONLY this step this turn.",
			idx+1, len(plan), step.ActionType, step.Description))
		if idx < len(plan)-1 {
			parts = append(parts, "Do NOT combine it with later steps or signal completion early.")
		}
	} else if suggestions := a.catalog.Suggestions(lastType); len(suggestions) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Your last action was [%s]. Recommended next: [%s].",
			lastType, strings.Join(suggestions, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("Your last action was [%s].", lastType))
	}

	if n := len(history); n >= consecutiveNudgeWindow {
		recent := history[n-consecutiveNudgeWindow:]
		same := true
		for _, s := range recent {
			if s.ActionType != recent[0].ActionType {
				same = false
				break
			}
		}
		if same {
			parts = append(parts, fmt.Sprintf(
				"You have done %d consecutive [%s] actions. Consider moving to a different action type.",
				consecutiveNudgeWindow, recent[0].ActionType))
		}
	}

	return strings.Join(parts, " ")
}

// Suggested returns the catalog's suggested successors for the given
// action type. The engine records this list on each step so adherence
// can be computed after the run.
func (a *Advisor) Suggested(lastType string) []string {
	return a.catalog.Suggestions(lastType)
}

func (a *Advisor) delegated() bool {
	return a.registry == nil
}

func (a *Advisor) toolSection() string {
	lines := []string{"## Available Tools", ""}
	switch {
	case a.delegated():
		lines = append(lines, "Tools are exposed natively as MCP tools. Call them directly whenever they help.")
	case a.registry.Len() == 0:
		lines = append(lines, "No tools available.")
	default:
		for _, t := range a.registry.Tools() {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", t.Name, t.Description))
		}
	}
	return strings.Join(lines, "\n")
}
