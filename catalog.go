package chainact

import (
	"fmt"
	"strings"
)

// ActionType describes a single entry in the action catalog.
//
// SuggestedNext is advisory metadata: the engine never rejects a declared
// action type for not appearing in a suggestion list, and suggestion entries
// may reference names that were never registered. The vocabulary is open:
// the agent is free to invent new type names at runtime.
type ActionType struct {
	// Name is the unique identifier, e.g. "compute" or "verify".
	Name string
	// Description explains what a step of this type is doing.
	Description string
	// SuggestedNext lists recommended downstream action types, in
	// preference order.
	SuggestedNext []string
	// CommonTools lists tools commonly used by this action type.
	// Informational only.
	CommonTools []string
}

// IsTerminal reports whether this type has no suggested successors.
func (a ActionType) IsTerminal() bool {
	return len(a.SuggestedNext) == 0
}

// DefaultTerminalType is the conventional completion type name used when a
// catalog has no registered terminal type.
const DefaultTerminalType = "done"

// Catalog is an insertion-ordered registry of action types.
//
// It is a pure lookup table: nothing mutates it during a run, and lookups for
// unknown names yield empty results rather than errors.
type Catalog struct {
	types map[string]ActionType
	order []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]ActionType)}
}

// Add registers an action type, overwriting any previous entry with the same
// name. Overwrites keep the original registration position.
func (c *Catalog) Add(at ActionType) {
	if _, exists := c.types[at.Name]; !exists {
		c.order = append(c.order, at.Name)
	}
	c.types[at.Name] = at
}

// Get returns the action type for name.
func (c *Catalog) Get(name string) (ActionType, bool) {
	at, ok := c.types[name]
	return at, ok
}

// Suggestions returns the recommended next types for the given current type.
// Unknown names yield an empty slice, never an error.
func (c *Catalog) Suggestions(current string) []string {
	at, ok := c.types[current]
	if !ok || len(at.SuggestedNext) == 0 {
		return nil
	}
	next := make([]string, len(at.SuggestedNext))
	copy(next, at.SuggestedNext)
	return next
}

// TypeNames returns all registered type names in registration order.
func (c *Catalog) TypeNames() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Len returns the number of registered action types.
func (c *Catalog) Len() int {
	return len(c.order)
}

// TerminalType returns the name of the completion type: the first registered
// type with no suggested successors, or [DefaultTerminalType] when the
// catalog has none.
func (c *Catalog) TerminalType() string {
	for _, name := range c.order {
		if c.types[name].IsTerminal() {
			return name
		}
	}
	return DefaultTerminalType
}

// PromptSection renders every registered type as a markdown section for
// embedding in reasoning-engine instructions. Output order follows
// registration order so instructions are deterministic across runs.
func (c *Catalog) PromptSection() string {
	var b strings.Builder
	b.WriteString("## Action Types\n")
	for _, name := range c.order {
		at := c.types[name]
		b.WriteString(fmt.Sprintf("\n- **%s**: %s", at.Name, at.Description))
		if len(at.CommonTools) > 0 {
			b.WriteString(fmt.Sprintf(" (common tools: %s)", strings.Join(at.CommonTools, ", ")))
		}
		if at.IsTerminal() {
			b.WriteString(" (terminal)")
		} else {
			b.WriteString(fmt.Sprintf(" → suggested next: [%s]", strings.Join(at.SuggestedNext, ", ")))
		}
	}
	return b.String()
}

// DefaultCatalog returns the stock analysis catalog used by the examples:
// analyze → plan → compute ⇄ verify → synthesize → done.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Add(ActionType{
		Name:          "analyze",
		Description:   "Understand the problem, identify what data and computations are needed",
		SuggestedNext: []string{"plan", "compute"},
	})
	c.Add(ActionType{
		Name:          "plan",
		Description:   "Break the task into concrete computation steps",
		SuggestedNext: []string{"compute"},
	})
	c.Add(ActionType{
		Name:          "compute",
		Description:   "Perform a calculation using tools",
		SuggestedNext: []string{"verify", "compute"},
		CommonTools:   []string{"calc", "compound", "stats"},
	})
	c.Add(ActionType{
		Name:          "verify",
		Description:   "Check a previous computation for correctness",
		SuggestedNext: []string{"compute", "synthesize"},
		CommonTools:   []string{"calc", "compound"},
	})
	c.Add(ActionType{
		Name:          "synthesize",
		Description:   "Combine results into a final answer",
		SuggestedNext: []string{"done"},
	})
	c.Add(ActionType{
		Name:        "done",
		Description: "Task is complete, present final results",
	})
	return c
}
