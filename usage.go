package chainact

// TokenUsage holds the usage figures from a single reasoning-engine call.
//
// CostUSD and DurationMS are the canonical fields. Token counts are filled by
// SDK transports that report them and are the basis for their cost
// derivation; CLI transports that report a dollar figure directly leave them
// zero.
type TokenUsage struct {
	CostUSD      float64 `json:"cost_usd"`
	DurationMS   int64   `json:"duration_ms"`
	InputTokens  int     `json:"input_tokens,omitempty"`
	OutputTokens int     `json:"output_tokens,omitempty"`
}

// TokenStats accumulates usage across calls for a single action type.
type TokenStats struct {
	CostUSD    float64 `json:"cost_usd"`
	DurationMS int64   `json:"duration_ms"`
	Calls      int     `json:"calls"`
}

// Add folds one call's usage into the running totals. Addition is
// commutative and associative: replaying records in any order yields
// identical totals.
func (s *TokenStats) Add(u TokenUsage) {
	s.CostUSD += u.CostUSD
	s.DurationMS += u.DurationMS
	s.Calls++
}
