package track

import ca "github.com/spetersoncode/chainact"

// Tracker accumulates per-action-type usage across one run. A tracker is
// owned by the run that created it and is not safe for concurrent use.
//
// Keys are the action types the agent declared, so an open-vocabulary
// run grows keys the catalog never mentioned. Plan generation is
// recorded under its own key by the engine.
type Tracker struct {
	stats map[string]ca.TokenStats
	order []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{stats: make(map[string]ca.TokenStats)}
}

// Record folds one call's usage into the stats for the given action type.
func (t *Tracker) Record(actionType string, usage ca.TokenUsage) {
	s, ok := t.stats[actionType]
	if !ok {
		t.order = append(t.order, actionType)
	}
	s.Add(usage)
	t.stats[actionType] = s
}

// TotalCost returns the total cost in USD across all action types.
func (t *Tracker) TotalCost() float64 {
	total := 0.0
	for _, s := range t.stats {
		total += s.CostUSD
	}
	return total
}

// TotalCalls returns the total number of recorded calls.
func (t *Tracker) TotalCalls() int {
	total := 0
	for _, s := range t.stats {
		total += s.Calls
	}
	return total
}

// ActionTypes returns the recorded action types in first-seen order.
func (t *Tracker) ActionTypes() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Stats returns a copy of the accumulated per-action-type stats.
func (t *Tracker) Stats() map[string]ca.TokenStats {
	out := make(map[string]ca.TokenStats, len(t.stats))
	for name, s := range t.stats {
		out[name] = s
	}
	return out
}

// Report is a point-in-time summary of a tracker.
type Report struct {
	PerActionType map[string]ca.TokenStats `json:"per_action_type"`
	TotalCostUSD  float64                  `json:"total_cost_usd"`
	TotalCalls    int                      `json:"total_calls"`
}

// Report summarizes the tracker for logging or serialization.
func (t *Tracker) Report() Report {
	return Report{
		PerActionType: t.Stats(),
		TotalCostUSD:  t.TotalCost(),
		TotalCalls:    t.TotalCalls(),
	}
}
