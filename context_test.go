package chainact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func steps(types ...string) []ActionStep {
	out := make([]ActionStep, len(types))
	for i, at := range types {
		out[i] = ActionStep{ActionType: at}
	}
	return out
}

func TestActionTypeCounts(t *testing.T) {
	run := NewExecutionContext("test")
	run.Steps = steps("compute", "compute", "verify")

	assert.Equal(t, map[string]int{"compute": 2, "verify": 1}, run.ActionTypeCounts())

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, NewExecutionContext("test").ActionTypeCounts())
	})

	t.Run("sum equals step count", func(t *testing.T) {
		total := 0
		for _, n := range run.ActionTypeCounts() {
			total += n
		}
		assert.Equal(t, len(run.Steps), total)
	})
}

func TestTransitionMatrix(t *testing.T) {
	run := NewExecutionContext("test")
	run.Steps = steps("analyze", "compute", "verify", "compute")

	assert.Equal(t, map[string]map[string]int{
		"analyze": {"compute": 1},
		"compute": {"verify": 1},
		"verify":  {"compute": 1},
	}, run.TransitionMatrix())
}

func TestTransitionMatrixDegenerate(t *testing.T) {
	run := NewExecutionContext("test")
	assert.Empty(t, run.TransitionMatrix())

	run.Steps = steps("analyze")
	assert.Empty(t, run.TransitionMatrix())
}

func TestTransitionMatrixAsymmetric(t *testing.T) {
	run := NewExecutionContext("test")
	run.Steps = steps("a", "b", "a", "b")

	m := run.TransitionMatrix()
	assert.Equal(t, 2, m["a"]["b"])
	assert.Equal(t, 1, m["b"]["a"])
}

func TestRecommendationAdherence(t *testing.T) {
	t.Run("no steps", func(t *testing.T) {
		run := NewExecutionContext("test")
		assert.Equal(t, 0.0, run.RecommendationAdherence())
	})

	t.Run("steps without recommendations are vacuously adherent", func(t *testing.T) {
		run := NewExecutionContext("test")
		run.Steps = []ActionStep{{ActionType: "analyze"}, {ActionType: "compute"}}
		assert.Equal(t, VacuousRecommendationAdherence, run.RecommendationAdherence())
	})

	t.Run("single step has no comparable predecessor", func(t *testing.T) {
		run := NewExecutionContext("test")
		run.Steps = []ActionStep{{ActionType: "analyze"}}
		assert.Equal(t, 1.0, run.RecommendationAdherence())
	})

	t.Run("all following", func(t *testing.T) {
		run := NewExecutionContext("test")
		run.Steps = []ActionStep{
			{ActionType: "analyze"},
			{ActionType: "compute", Recommendation: []string{"plan", "compute"}, FollowedRecommendation: true},
			{ActionType: "verify", Recommendation: []string{"verify", "compute"}, FollowedRecommendation: true},
		}
		assert.Equal(t, 1.0, run.RecommendationAdherence())
	})

	t.Run("all deviating", func(t *testing.T) {
		run := NewExecutionContext("test")
		run.Steps = []ActionStep{
			{ActionType: "analyze"},
			{ActionType: "synthesize", Recommendation: []string{"plan", "compute"}},
			{ActionType: "analyze", Recommendation: []string{"done"}},
		}
		assert.Equal(t, 0.0, run.RecommendationAdherence())
	})

	t.Run("mixed", func(t *testing.T) {
		run := NewExecutionContext("test")
		run.Steps = []ActionStep{
			{ActionType: "analyze"},
			{ActionType: "compute", Recommendation: []string{"compute"}, FollowedRecommendation: true},
			{ActionType: "analyze", Recommendation: []string{"verify"}},
		}
		assert.InDelta(t, 0.5, run.RecommendationAdherence(), 1e-9)
	})
}

func TestPlanAdherence(t *testing.T) {
	plan := []PlanStep{
		{ActionType: "analyze", Description: "understand"},
		{ActionType: "compute", Description: "calculate"},
		{ActionType: "verify", Description: "check"},
		{ActionType: "done", Description: "finish"},
	}

	t.Run("full match", func(t *testing.T) {
		run := NewExecutionContext("test")
		run.Plan = plan[:3]
		run.Steps = steps("analyze", "compute", "verify")
		assert.Equal(t, 1.0, run.PlanAdherence())
	})

	t.Run("one mismatch out of four", func(t *testing.T) {
		run := NewExecutionContext("test")
		run.Plan = plan
		run.Steps = steps("analyze", "compute", "compute", "done")
		assert.Equal(t, 0.75, run.PlanAdherence())
	})

	t.Run("no plan", func(t *testing.T) {
		run := NewExecutionContext("test")
		run.Steps = steps("analyze")
		assert.Equal(t, NoPlanAdherence, run.PlanAdherence())
	})

	t.Run("no plan and no steps", func(t *testing.T) {
		assert.Equal(t, NoPlanAdherence, NewExecutionContext("test").PlanAdherence())
	})

	t.Run("steps beyond plan end count as mismatches", func(t *testing.T) {
		run := NewExecutionContext("test")
		run.Plan = plan[:2]
		run.Steps = steps("analyze", "compute", "verify", "done")
		assert.Equal(t, 0.5, run.PlanAdherence())
	})
}

func TestUnrecognized(t *testing.T) {
	run := NewExecutionContext("test")
	run.Steps = steps("analyze", "improvise", "compute", "improvise", "riff")

	assert.Equal(t, []string{"improvise", "riff"}, run.Unrecognized(DefaultCatalog()))
}

func TestActionStepFirstTool(t *testing.T) {
	step := ActionStep{
		ActionType: "compute",
		ToolCalls: []ToolInvocation{
			{Name: "compound", Args: map[string]any{"base": 95000.0, "rate": 0.08, "years": 4.0}, Result: "129145.55"},
			{Name: "compound", Args: map[string]any{"base": 110000.0, "rate": 0.05, "years": 4.0}, Result: "133762.18"},
		},
	}

	first, ok := step.FirstTool()
	assert.True(t, ok)
	assert.Equal(t, "compound", first.Name)
	assert.Equal(t, "129145.55", first.Result)

	_, ok = ActionStep{ActionType: "analyze"}.FirstTool()
	assert.False(t, ok)
}

func TestTotalCost(t *testing.T) {
	run := NewExecutionContext("test")
	run.CostStats = map[string]TokenStats{
		"compute": {CostUSD: 0.03, Calls: 3},
		"verify":  {CostUSD: 0.01, Calls: 1},
	}
	assert.InDelta(t, 0.04, run.TotalCost(), 1e-9)
}
