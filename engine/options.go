package engine

import (
	"log/slog"

	"github.com/spetersoncode/chainact/tool"
)

// DefaultMaxTurns is the default turn budget for a run, counting the
// plan-generation call when planning is enabled.
const DefaultMaxTurns = 20

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithRegistry supplies an in-process tool registry. The engine then
// dispatches tool calls itself and the response schema asks the model to
// select tools by name. Without a registry the engine runs in delegated
// mode and tools reach the model over its native channel, if any.
func WithRegistry(r *tool.Registry) EngineOption {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithLogger sets the structured logger for run progress.
// Defaults to slog.Default.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// RunOptions contains per-run configuration.
type RunOptions struct {
	// MaxTurns limits the number of reasoning-engine calls, including
	// plan generation. Default is DefaultMaxTurns.
	MaxTurns int

	// Planning enables the plan-generation phase before execution.
	Planning bool
}

// RunOption is a functional option for a single run.
type RunOption func(*RunOptions)

// WithMaxTurns sets the turn budget for the run.
func WithMaxTurns(n int) RunOption {
	return func(o *RunOptions) {
		o.MaxTurns = n
	}
}

// WithPlanning enables the plan-generation phase. The plan call consumes
// the first slot of the turn budget.
func WithPlanning() RunOption {
	return func(o *RunOptions) {
		o.Planning = true
	}
}
