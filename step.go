package chainact

// ToolInvocation records one tool call made during a step: the tool name,
// the arguments it was called with, and the result string it produced.
//
// The same shape covers both tool-execution strategies. When the engine
// dispatches registered tools itself, it fills this in after invoking the
// handler; when the reasoning engine calls tools natively, the transport
// reports the calls it observed and the result is whatever came back over
// the wire. Faults surface as error text in Result, never as a missing entry.
type ToolInvocation struct {
	// Name is the short tool name ("calc", not "mcp__server__calc").
	Name string `json:"name"`
	// Args holds the arguments the tool was invoked with.
	Args map[string]any `json:"args,omitempty"`
	// Result is the string the tool returned, or an error description.
	Result string `json:"result"`
}

// UnknownActionType is the sentinel recorded for a turn whose structured
// output could not be parsed or carried no action type. Bad turns degrade
// to this sentinel instead of aborting the run.
const UnknownActionType = "unknown"

// PlanStep is one entry of a generated execution plan.
type PlanStep struct {
	// ActionType is the type the plan expects at this position.
	ActionType string `json:"action_type"`
	// Description says what this step should accomplish.
	Description string `json:"description"`
}

// ActionStep is one completed turn of the execution loop. Steps are
// immutable once appended to an [ExecutionContext].
type ActionStep struct {
	// ActionType is the type the reasoning engine declared for this step.
	// Self-classified and open-vocabulary: it need not exist in the catalog.
	ActionType string
	// Thinking is the engine's reported reasoning for the step.
	Thinking string
	// Response is the step's response text.
	Response string
	// ToolCalls lists the tool invocations made during this step, in order.
	ToolCalls []ToolInvocation
	// PlannedType is the action type the plan expected at this position.
	// Empty when the run had no plan or the cursor had passed the plan end.
	PlannedType string
	// Recommendation is the list of suggested types offered before this
	// step. Nil for the first step, which has no predecessor.
	Recommendation []string
	// FollowedRecommendation reports whether ActionType appeared in
	// Recommendation.
	FollowedRecommendation bool
	// Cost is the usage recorded for the reasoning-engine call that
	// produced this step, if available.
	Cost *TokenUsage
}

// FirstTool returns the first tool invocation of the step, or false when the
// step made no tool calls.
func (s ActionStep) FirstTool() (ToolInvocation, bool) {
	if len(s.ToolCalls) == 0 {
		return ToolInvocation{}, false
	}
	return s.ToolCalls[0], true
}
