package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	ca "github.com/spetersoncode/chainact"
	"github.com/spetersoncode/chainact/advisor"
	"github.com/spetersoncode/chainact/provider"
	"github.com/spetersoncode/chainact/tool"
	"github.com/spetersoncode/chainact/track"
)

// planKey is the tracker key for the plan-generation call.
const planKey = "plan"

// Engine drives the chain-of-action loop: optional plan generation
// followed by guided execution turns until the agent signals completion
// or the turn budget runs out.
//
// A run is a single sequential state machine. Nothing mutates the
// ExecutionContext outside the loop, so no locking is involved; the only
// suspension points are the provider and tool calls.
type Engine struct {
	catalog  *ca.Catalog
	registry *tool.Registry
	logger   *slog.Logger

	toolServerName    string
	toolServerCommand []string
}

// New creates an Engine over the given action catalog.
func New(catalog *ca.Catalog, opts ...EngineOption) *Engine {
	e := &Engine{catalog: catalog}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// RegisterToolServer registers an external tool server to be set up on
// providers that support a native tool channel. The command starts the
// server process, e.g. the toolserver sidecar binary.
func (e *Engine) RegisterToolServer(name string, command []string) {
	e.toolServerName = name
	e.toolServerCommand = command
}

// Run executes the loop for the given task and returns the completed
// execution context. An exhausted turn budget is a normal outcome, not
// an error; the only error returned is a tool-channel setup failure
// before any turn has executed.
func (e *Engine) Run(ctx context.Context, task string, p provider.Provider, opts ...RunOption) (*ca.ExecutionContext, error) {
	o := RunOptions{MaxTurns: DefaultMaxTurns}
	for _, opt := range opts {
		opt(&o)
	}

	if sp, ok := p.(provider.SessionProvider); ok {
		sp.ResetSession()
	}

	if e.toolServerName != "" {
		tcp, ok := p.(provider.ToolChannelProvider)
		if !ok {
			return nil, fmt.Errorf("engine: provider does not support tool channels, cannot register %q", e.toolServerName)
		}
		if err := tcp.SetupTools(ctx, e.toolServerName, e.toolServerCommand); err != nil {
			return nil, fmt.Errorf("engine: tool channel setup: %w", err)
		}
		defer func() {
			if err := tcp.CleanupTools(ctx); err != nil {
				e.logger.Warn("tool channel cleanup failed", "error", err)
			}
		}()
	}

	return e.runLoop(ctx, task, p, o), nil
}

func (e *Engine) runLoop(ctx context.Context, task string, p provider.Provider, o RunOptions) *ca.ExecutionContext {
	adv := advisor.New(e.catalog, e.registry)
	tracker := track.NewTracker()
	run := ca.NewExecutionContext(task)
	messages := []ca.Message{ca.NewUserMessage(task)}
	terminal := e.catalog.TerminalType()

	firstTurn := 0
	if o.Planning {
		run.TurnCount = 1
		firstTurn = 1
		run.Plan = e.generatePlan(ctx, messages, p, adv, tracker)
		e.logger.Info("plan generated", "steps", len(run.Plan))
	}

	for turn := firstTurn; turn < o.MaxTurns; turn++ {
		run.TurnCount = turn + 1

		var instructions string
		var recommendation []string
		if last, ok := run.LastStep(); ok {
			instructions = adv.Recommendation(last.ActionType, run.Steps, run.Plan, run.PlanCursor)
			recommendation = adv.Suggested(last.ActionType)
		} else {
			instructions = adv.InitialInstructions()
		}

		schema := adv.ResponseSchema()
		fields, usage, invocations := e.callProvider(ctx, p, messages, instructions, schema)

		actionType := stringField(fields, "action_type")
		if actionType == "" {
			actionType = ca.UnknownActionType
		}
		thinking := stringField(fields, "thinking")
		responseText := stringField(fields, "response")
		isDone := boolField(fields, "is_done") || actionType == terminal

		tracker.Record(actionType, usage)

		if responseText != "" {
			messages = append(messages, ca.NewAssistantMessage(responseText))
		}

		if e.registry != nil {
			if inv, ok := e.dispatchTool(ctx, fields); ok {
				invocations = append(invocations, inv)
				messages = append(messages, ca.NewUserMessage(
					fmt.Sprintf("Tool %s returned: %s", inv.Name, inv.Result)))
			}
		}

		// The plan is a guide, not a gate: capture the expected type,
		// then advance regardless of whether the declared type matched.
		plannedType := ""
		if len(run.Plan) > 0 && run.PlanCursor < len(run.Plan) {
			plannedType = run.Plan[run.PlanCursor].ActionType
			run.PlanCursor++
		}

		cost := usage
		run.Append(ca.ActionStep{
			ActionType:             actionType,
			Thinking:               thinking,
			Response:               responseText,
			ToolCalls:              invocations,
			PlannedType:            plannedType,
			Recommendation:         recommendation,
			FollowedRecommendation: contains(recommendation, actionType),
			Cost:                   &cost,
		})

		e.logger.Info("turn complete",
			"turn", run.TurnCount,
			"action", actionType,
			"planned", plannedType,
			"tools", len(invocations),
			"done", isDone,
		)

		if isDone {
			break
		}
	}

	run.CostStats = tracker.Stats()
	return run
}

// callProvider makes one reasoning-engine call and returns the validated
// structured fields. Transport failures and schema-invalid output both
// degrade to nil fields; the turn still consumes budget and records cost.
func (e *Engine) callProvider(ctx context.Context, p provider.Provider, messages []ca.Message, instructions string, schema json.RawMessage) (map[string]any, ca.TokenUsage, []ca.ToolInvocation) {
	resp, err := p.Call(ctx, messages, instructions, schema)
	if err != nil {
		e.logger.Warn("provider call failed", "error", err)
		return nil, ca.TokenUsage{}, nil
	}

	fields := resp.Fields
	if fields != nil && !validates(schema, fields) {
		e.logger.Warn("structured output failed schema validation")
		fields = nil
	}
	return fields, resp.Usage, resp.Invocations
}

// generatePlan runs the plan-generation call. Any failure degrades to an
// empty plan, which silently falls back to no-plan guidance.
func (e *Engine) generatePlan(ctx context.Context, messages []ca.Message, p provider.Provider, adv *advisor.Advisor, tracker *track.Tracker) []ca.PlanStep {
	schema := adv.PlanSchema()
	resp, err := p.Call(ctx, messages, adv.PlanInstructions(), schema)
	if err != nil {
		e.logger.Warn("plan generation failed", "error", err)
		return nil
	}
	tracker.Record(planKey, resp.Usage)

	fields := resp.Fields
	if fields == nil || !validates(schema, fields) {
		e.logger.Warn("plan output failed schema validation")
		return nil
	}

	items, _ := fields["plan"].([]any)
	plan := make([]ca.PlanStep, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		at, _ := m["action_type"].(string)
		desc, _ := m["description"].(string)
		if at == "" {
			continue
		}
		plan = append(plan, ca.PlanStep{ActionType: at, Description: desc})
	}
	return plan
}

// dispatchTool executes the tool the model selected, if any. Faults are
// folded into the invocation result so the model can observe and recover
// from them on the next turn.
func (e *Engine) dispatchTool(ctx context.Context, fields map[string]any) (ca.ToolInvocation, bool) {
	name := stringField(fields, "tool_name")
	if name == "" || name == "none" {
		return ca.ToolInvocation{}, false
	}

	args, _ := fields["tool_args"].(map[string]any)
	argJSON, err := json.Marshal(args)
	if err != nil {
		argJSON = []byte("{}")
	}

	result, err := e.registry.Execute(ctx, ca.ToolCall{
		ID:        "call-" + uuid.New().String(),
		Name:      name,
		Arguments: string(argJSON),
	})

	content := result.Content
	if err != nil {
		content = fmt.Sprintf("Error: %v", err)
	}

	return ca.ToolInvocation{Name: name, Args: args, Result: content}, true
}

func validates(schema json.RawMessage, fields map[string]any) bool {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewGoLoader(fields),
	)
	return err == nil && result.Valid()
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolField(fields map[string]any, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
