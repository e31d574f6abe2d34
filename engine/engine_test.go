package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	ca "github.com/spetersoncode/chainact"
	"github.com/spetersoncode/chainact/provider"
	"github.com/spetersoncode/chainact/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays a fixed sequence of responses and records
// everything the engine sent it.
type scriptedProvider struct {
	responses []*provider.Response
	errs      map[int]error

	calls        int
	instructions []string
	messageLog   [][]ca.Message
	resets       int
}

func (s *scriptedProvider) Call(ctx context.Context, messages []ca.Message, instructions string, schema json.RawMessage) (*provider.Response, error) {
	i := s.calls
	s.calls++
	s.instructions = append(s.instructions, instructions)
	snapshot := make([]ca.Message, len(messages))
	copy(snapshot, messages)
	s.messageLog = append(s.messageLog, snapshot)

	if err := s.errs[i]; err != nil {
		return nil, err
	}
	if i >= len(s.responses) {
		panic("scripted provider exhausted")
	}
	return s.responses[i], nil
}

func (s *scriptedProvider) ResetSession() {
	s.resets++
}

func stepResponse(actionType string, done bool) *provider.Response {
	return &provider.Response{
		Fields: map[string]any{
			"action_type": actionType,
			"thinking":    "thinking about " + actionType,
			"response":    "did " + actionType,
			"is_done":     done,
		},
		Usage: ca.TokenUsage{CostUSD: 0.01, DurationMS: 100},
	}
}

func specCatalog() *ca.Catalog {
	c := ca.NewCatalog()
	c.Add(ca.ActionType{Name: "analyze", Description: "understand", SuggestedNext: []string{"compute"}})
	c.Add(ca.ActionType{Name: "compute", Description: "calculate", SuggestedNext: []string{"verify", "compute"}})
	c.Add(ca.ActionType{Name: "verify", Description: "check", SuggestedNext: []string{"compute", "synthesize"}})
	c.Add(ca.ActionType{Name: "synthesize", Description: "combine", SuggestedNext: []string{"done"}})
	c.Add(ca.ActionType{Name: "done", Description: "finished"})
	return c
}

func quietEngine(catalog *ca.Catalog, opts ...EngineOption) *Engine {
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return New(catalog, opts...)
}

func TestRunEndToEnd(t *testing.T) {
	p := &scriptedProvider{responses: []*provider.Response{
		stepResponse("analyze", false),
		stepResponse("compute", false),
		stepResponse("compute", false),
		stepResponse("verify", false),
		stepResponse("synthesize", false),
		stepResponse("done", true),
	}}

	run, err := quietEngine(specCatalog()).Run(context.Background(), "analyze salaries", p)
	require.NoError(t, err)
	require.Len(t, run.Steps, 6)

	assert.Equal(t, map[string]int{
		"analyze": 1, "compute": 2, "verify": 1, "synthesize": 1, "done": 1,
	}, run.ActionTypeCounts())

	matrix := run.TransitionMatrix()
	assert.NotEmpty(t, matrix)
	assert.Equal(t, 1, matrix["compute"]["compute"])

	assert.Equal(t, 1.0, run.RecommendationAdherence())
	assert.Equal(t, 1, p.resets)
	assert.InDelta(t, 0.06, run.TotalCost(), 1e-9)
	assert.Equal(t, 6, run.TurnCount)
}

func TestRunFirstTurnUsesInitialInstructions(t *testing.T) {
	p := &scriptedProvider{responses: []*provider.Response{
		stepResponse("analyze", false),
		stepResponse("done", true),
	}}

	_, err := quietEngine(specCatalog()).Run(context.Background(), "task", p)
	require.NoError(t, err)
	require.Len(t, p.instructions, 2)

	assert.Contains(t, p.instructions[0], "Action Types")
	assert.Contains(t, p.instructions[1], "last action was")
	assert.Contains(t, p.instructions[1], "[analyze]")
}

func TestRunStopsOnTerminalType(t *testing.T) {
	// is_done is false but the declared type is the catalog terminal.
	p := &scriptedProvider{responses: []*provider.Response{
		stepResponse("analyze", false),
		stepResponse("done", false),
	}}

	run, err := quietEngine(specCatalog()).Run(context.Background(), "task", p)
	require.NoError(t, err)
	assert.Len(t, run.Steps, 2)
}

func TestRunExhaustsTurnBudget(t *testing.T) {
	p := &scriptedProvider{responses: []*provider.Response{
		stepResponse("compute", false),
		stepResponse("compute", false),
		stepResponse("compute", false),
		stepResponse("compute", false),
	}}

	run, err := quietEngine(specCatalog()).Run(context.Background(), "task", p, WithMaxTurns(3))
	require.NoError(t, err)
	assert.Len(t, run.Steps, 3)
	assert.Equal(t, 3, run.TurnCount)
	assert.Equal(t, 3, run.CostStats["compute"].Calls)
}

func TestRunDegradesFailedCallToUnknown(t *testing.T) {
	p := &scriptedProvider{
		responses: []*provider.Response{
			stepResponse("analyze", false),
			nil,
			stepResponse("done", true),
		},
		errs: map[int]error{1: errors.New("transport down")},
	}

	run, err := quietEngine(specCatalog()).Run(context.Background(), "task", p)
	require.NoError(t, err)
	require.Len(t, run.Steps, 3)

	assert.Equal(t, ca.UnknownActionType, run.Steps[1].ActionType)
	assert.Empty(t, run.Steps[1].Response)
	assert.Equal(t, 1, run.CostStats[ca.UnknownActionType].Calls)
}

func TestRunDegradesInvalidFieldsToUnknown(t *testing.T) {
	p := &scriptedProvider{responses: []*provider.Response{
		{Fields: map[string]any{"thinking": "no action type here"}},
		stepResponse("done", true),
	}}

	run, err := quietEngine(specCatalog()).Run(context.Background(), "task", p)
	require.NoError(t, err)
	assert.Equal(t, ca.UnknownActionType, run.Steps[0].ActionType)
}

func TestRunWithPlanning(t *testing.T) {
	planResponse := &provider.Response{
		Fields: map[string]any{
			"thinking": "break it down",
			"plan": []any{
				map[string]any{"action_type": "compute", "description": "calculate the total"},
				map[string]any{"action_type": "done", "description": "present the answer"},
			},
		},
		Usage: ca.TokenUsage{CostUSD: 0.02, DurationMS: 300},
	}
	p := &scriptedProvider{responses: []*provider.Response{
		planResponse,
		stepResponse("compute", false),
		stepResponse("done", true),
	}}

	run, err := quietEngine(specCatalog()).Run(context.Background(), "task", p, WithPlanning())
	require.NoError(t, err)

	require.Len(t, run.Plan, 2)
	assert.Equal(t, "compute", run.Plan[0].ActionType)
	assert.Contains(t, p.instructions[0], "execution plan")

	require.Len(t, run.Steps, 2)
	assert.Equal(t, "compute", run.Steps[0].PlannedType)
	assert.Equal(t, "done", run.Steps[1].PlannedType)
	assert.Equal(t, 2, run.PlanCursor)
	assert.Equal(t, 1.0, run.PlanAdherence())

	// Plan generation consumes budget slot 0 and is tracked separately.
	assert.Equal(t, 3, run.TurnCount)
	assert.Equal(t, 1, run.CostStats["plan"].Calls)

	// Guidance after the first step points at the plan, not the catalog.
	assert.Contains(t, p.instructions[2], "Step 2/2")
}

func TestRunPlanFailureFallsBackToNoPlan(t *testing.T) {
	p := &scriptedProvider{
		responses: []*provider.Response{
			nil,
			stepResponse("analyze", false),
			stepResponse("done", true),
		},
		errs: map[int]error{0: errors.New("plan call failed")},
	}

	run, err := quietEngine(specCatalog()).Run(context.Background(), "task", p, WithPlanning())
	require.NoError(t, err)

	assert.Empty(t, run.Plan)
	require.Len(t, run.Steps, 2)
	assert.Empty(t, run.Steps[0].PlannedType)
	assert.Equal(t, 0.0, run.PlanAdherence())
	// No-plan guidance for the second execution turn.
	assert.Contains(t, p.instructions[2], "last action was")
}

func TestRunPlanCursorAdvancesOnMismatch(t *testing.T) {
	planResponse := &provider.Response{
		Fields: map[string]any{
			"thinking": "plan",
			"plan": []any{
				map[string]any{"action_type": "analyze", "description": "a"},
				map[string]any{"action_type": "compute", "description": "b"},
				map[string]any{"action_type": "done", "description": "c"},
			},
		},
	}
	p := &scriptedProvider{responses: []*provider.Response{
		planResponse,
		stepResponse("verify", false), // deviates from planned "analyze"
		stepResponse("compute", false),
		stepResponse("done", true),
	}}

	run, err := quietEngine(specCatalog()).Run(context.Background(), "task", p, WithPlanning())
	require.NoError(t, err)
	require.Len(t, run.Steps, 3)

	assert.Equal(t, "analyze", run.Steps[0].PlannedType)
	assert.Equal(t, "compute", run.Steps[1].PlannedType)
	assert.Equal(t, "done", run.Steps[2].PlannedType)
	assert.InDelta(t, 2.0/3.0, run.PlanAdherence(), 1e-9)
}

type echoArgs struct {
	Text string `json:"text" required:"true"`
}

func inProcessResponse(actionType, toolName string, toolArgs map[string]any, done bool) *provider.Response {
	if toolArgs == nil {
		toolArgs = map[string]any{}
	}
	r := stepResponse(actionType, done)
	r.Fields["tool_name"] = toolName
	r.Fields["tool_args"] = toolArgs
	return r
}

func TestRunDispatchesInProcessTools(t *testing.T) {
	registry := tool.NewRegistry().Add(
		tool.Func("echo", "Echo text back", func(ctx context.Context, args echoArgs) (string, error) {
			return "echo: " + args.Text, nil
		}),
	)
	p := &scriptedProvider{responses: []*provider.Response{
		inProcessResponse("compute", "echo", map[string]any{"text": "hi"}, false),
		inProcessResponse("done", "none", nil, true),
	}}

	run, err := quietEngine(specCatalog(), WithRegistry(registry)).Run(context.Background(), "task", p)
	require.NoError(t, err)
	require.Len(t, run.Steps, 2)

	inv, ok := run.Steps[0].FirstTool()
	require.True(t, ok)
	assert.Equal(t, "echo", inv.Name)
	assert.Equal(t, "echo: hi", inv.Result)

	// The result is threaded into the next turn's conversation.
	var found bool
	for _, msg := range p.messageLog[1] {
		if msg.Role == ca.RoleUser && strings.Contains(msg.Content, "Tool echo returned: echo: hi") {
			found = true
		}
	}
	assert.True(t, found)

	assert.Empty(t, run.Steps[1].ToolCalls)
}

func TestRunFoldsToolFaultIntoResult(t *testing.T) {
	registry := tool.NewRegistry().Add(
		tool.Func("echo", "Echo text back", func(ctx context.Context, args echoArgs) (string, error) {
			return "", fmt.Errorf("boom")
		}),
	)
	p := &scriptedProvider{responses: []*provider.Response{
		inProcessResponse("compute", "echo", map[string]any{"text": "hi"}, false),
		inProcessResponse("done", "none", nil, true),
	}}

	run, err := quietEngine(specCatalog(), WithRegistry(registry)).Run(context.Background(), "task", p)
	require.NoError(t, err)

	inv, ok := run.Steps[0].FirstTool()
	require.True(t, ok)
	assert.Equal(t, "boom", inv.Result)
}

func TestRunRejectsUnregisteredToolName(t *testing.T) {
	registry := tool.NewRegistry().Add(
		tool.Func("other", "Other tool", func(ctx context.Context, args echoArgs) (string, error) {
			return "", nil
		}),
	)
	// tool_name is constrained to the registered names, so selecting an
	// unregistered tool fails schema validation and the step degrades.
	p := &scriptedProvider{responses: []*provider.Response{
		inProcessResponse("compute", "echo", map[string]any{}, false),
		inProcessResponse("done", "none", nil, true),
	}}

	run, err := quietEngine(specCatalog(), WithRegistry(registry)).Run(context.Background(), "task", p)
	require.NoError(t, err)

	assert.Equal(t, ca.UnknownActionType, run.Steps[0].ActionType)
	assert.Empty(t, run.Steps[0].ToolCalls)
}

// toolChannelProvider wraps scriptedProvider with a native tool channel.
type toolChannelProvider struct {
	scriptedProvider
	setupErr   error
	setupName  string
	setupCmd   []string
	cleanedUp  bool
	setupCalls int
}

func (p *toolChannelProvider) SetupTools(ctx context.Context, name string, command []string) error {
	p.setupCalls++
	p.setupName = name
	p.setupCmd = command
	return p.setupErr
}

func (p *toolChannelProvider) CleanupTools(ctx context.Context) error {
	p.cleanedUp = true
	return nil
}

func TestRunBracketsToolChannel(t *testing.T) {
	p := &toolChannelProvider{scriptedProvider: scriptedProvider{responses: []*provider.Response{
		stepResponse("done", true),
	}}}

	e := quietEngine(specCatalog())
	e.RegisterToolServer("salary-tools", []string{"./toolserver"})

	_, err := e.Run(context.Background(), "task", p)
	require.NoError(t, err)
	assert.Equal(t, 1, p.setupCalls)
	assert.Equal(t, "salary-tools", p.setupName)
	assert.True(t, p.cleanedUp)
}

func TestRunToolChannelSetupFailureIsFatal(t *testing.T) {
	p := &toolChannelProvider{
		scriptedProvider: scriptedProvider{responses: []*provider.Response{stepResponse("done", true)}},
		setupErr:         errors.New("cannot start server"),
	}

	e := quietEngine(specCatalog())
	e.RegisterToolServer("salary-tools", []string{"./toolserver"})

	_, err := e.Run(context.Background(), "task", p)
	require.Error(t, err)
	assert.Equal(t, 0, p.calls)
}
