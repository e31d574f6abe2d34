package chainact

// Adherence edge-case values. The two guidance modes deliberately disagree
// about what "nothing to compare against" means: with no evaluable steps a
// recommendation run is vacuously adherent, while a run with no plan has
// nothing it could have adhered to. Keep these distinct.
const (
	// VacuousRecommendationAdherence is returned by
	// [ExecutionContext.RecommendationAdherence] when no step had a
	// recommendation to follow.
	VacuousRecommendationAdherence = 1.0

	// NoPlanAdherence is returned by [ExecutionContext.PlanAdherence] when
	// there is no plan or no steps.
	NoPlanAdherence = 0.0
)

// ExecutionContext is the mutable record of one engine run: the task, the
// optional generated plan and its cursor, every completed step in order, and
// the final cost snapshot.
//
// A context is owned exclusively by the run that created it. The engine
// appends exactly one step per turn; all analytics are derived purely from
// the recorded steps.
type ExecutionContext struct {
	// Task is the task text the run was started with.
	Task string
	// Plan is the generated execution plan, empty when planning was
	// disabled or plan generation failed.
	Plan []PlanStep
	// PlanCursor is the current position in Plan. It advances by exactly
	// one per executed turn once a plan exists, regardless of whether the
	// declared type matched the planned one.
	PlanCursor int
	// Steps holds every completed turn in execution order.
	Steps []ActionStep
	// TurnCount is the number of reasoning-engine calls made, including
	// the plan-generation call.
	TurnCount int
	// CostStats maps action-type name to accumulated usage, snapshotted
	// from the tracker when the loop exits.
	CostStats map[string]TokenStats
}

// NewExecutionContext creates an empty context for the given task.
func NewExecutionContext(task string) *ExecutionContext {
	return &ExecutionContext{Task: task}
}

// Append records one completed step.
func (c *ExecutionContext) Append(step ActionStep) {
	c.Steps = append(c.Steps, step)
}

// LastStep returns the most recently recorded step, or false when the run
// has no steps yet.
func (c *ExecutionContext) LastStep() (ActionStep, bool) {
	if len(c.Steps) == 0 {
		return ActionStep{}, false
	}
	return c.Steps[len(c.Steps)-1], true
}

// ActionTypeCounts returns a histogram of declared action types across all
// recorded steps. An empty step list yields an empty map.
func (c *ExecutionContext) ActionTypeCounts() map[string]int {
	counts := make(map[string]int)
	for _, step := range c.Steps {
		counts[step.ActionType]++
	}
	return counts
}

// TransitionMatrix counts observed action-type successions: for every
// adjacent step pair the entry matrix[from][to] is incremented. The matrix
// is not symmetric, and zero or one step yields an empty matrix.
func (c *ExecutionContext) TransitionMatrix() map[string]map[string]int {
	matrix := make(map[string]map[string]int)
	for i := 0; i+1 < len(c.Steps); i++ {
		from := c.Steps[i].ActionType
		to := c.Steps[i+1].ActionType
		if matrix[from] == nil {
			matrix[from] = make(map[string]int)
		}
		matrix[from][to]++
	}
	return matrix
}

// RecommendationAdherence returns the fraction of evaluable steps whose
// declared action type appeared in the recommendation offered before them.
//
// The first step has no predecessor and is never evaluable, and neither is a
// step whose predecessor had no suggestions to offer. A run with at least
// one step but no evaluable steps is vacuously adherent and yields
// [VacuousRecommendationAdherence]; a run with no steps at all yields 0.
func (c *ExecutionContext) RecommendationAdherence() float64 {
	if len(c.Steps) == 0 {
		return 0.0
	}
	evaluable := 0
	followed := 0
	for i, step := range c.Steps {
		if i == 0 || len(step.Recommendation) == 0 {
			continue
		}
		evaluable++
		if step.FollowedRecommendation {
			followed++
		}
	}
	if evaluable == 0 {
		return VacuousRecommendationAdherence
	}
	return float64(followed) / float64(evaluable)
}

// PlanAdherence returns the fraction of steps whose declared action type
// matched the plan entry at the same position. With no plan or no steps the
// result is [NoPlanAdherence]: nothing to compare against is not the same as
// everything matching.
func (c *ExecutionContext) PlanAdherence() float64 {
	if len(c.Plan) == 0 || len(c.Steps) == 0 {
		return NoPlanAdherence
	}
	matches := 0
	for i, step := range c.Steps {
		if i < len(c.Plan) && step.ActionType == c.Plan[i].ActionType {
			matches++
		}
	}
	return float64(matches) / float64(len(c.Steps))
}

// Unrecognized returns the declared action-type names that do not exist in
// the given catalog, in first-seen order. Unknown names are first-class
// data, not errors; this is an analytics convenience for spotting them.
func (c *ExecutionContext) Unrecognized(catalog *Catalog) []string {
	var names []string
	seen := make(map[string]bool)
	for _, step := range c.Steps {
		if seen[step.ActionType] {
			continue
		}
		seen[step.ActionType] = true
		if _, ok := catalog.Get(step.ActionType); !ok {
			names = append(names, step.ActionType)
		}
	}
	return names
}

// TotalCost sums the cost snapshot across all action types.
func (c *ExecutionContext) TotalCost() float64 {
	total := 0.0
	for _, s := range c.CostStats {
		total += s.CostUSD
	}
	return total
}
