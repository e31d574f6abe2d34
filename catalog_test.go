package chainact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogAddAndGet(t *testing.T) {
	c := NewCatalog()
	c.Add(ActionType{Name: "analyze", Description: "understand the problem"})

	at, ok := c.Get("analyze")
	require.True(t, ok)
	assert.Equal(t, "analyze", at.Name)
	assert.Equal(t, "understand the problem", at.Description)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCatalogOverwriteKeepsPosition(t *testing.T) {
	c := NewCatalog()
	c.Add(ActionType{Name: "a", Description: "first"})
	c.Add(ActionType{Name: "b", Description: "second"})
	c.Add(ActionType{Name: "a", Description: "updated"})

	assert.Equal(t, []string{"a", "b"}, c.TypeNames())
	at, _ := c.Get("a")
	assert.Equal(t, "updated", at.Description)
}

func TestCatalogSuggestions(t *testing.T) {
	c := NewCatalog()
	c.Add(ActionType{Name: "compute", SuggestedNext: []string{"verify"}})

	assert.Equal(t, []string{"verify"}, c.Suggestions("compute"))

	t.Run("unknown name yields empty, not error", func(t *testing.T) {
		assert.Empty(t, c.Suggestions("nonexistent"))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		s := c.Suggestions("compute")
		s[0] = "mutated"
		assert.Equal(t, []string{"verify"}, c.Suggestions("compute"))
	})
}

func TestCatalogTypeNamesOrder(t *testing.T) {
	c := NewCatalog()
	c.Add(ActionType{Name: "a"})
	c.Add(ActionType{Name: "b"})
	c.Add(ActionType{Name: "c"})
	assert.Equal(t, []string{"a", "b", "c"}, c.TypeNames())
}

func TestCatalogTerminalType(t *testing.T) {
	t.Run("first type without successors", func(t *testing.T) {
		c := NewCatalog()
		c.Add(ActionType{Name: "work", SuggestedNext: []string{"finish"}})
		c.Add(ActionType{Name: "finish"})
		assert.Equal(t, "finish", c.TerminalType())
	})

	t.Run("empty catalog falls back to convention", func(t *testing.T) {
		assert.Equal(t, DefaultTerminalType, NewCatalog().TerminalType())
	})
}

func TestCatalogPromptSection(t *testing.T) {
	c := NewCatalog()
	c.Add(ActionType{
		Name:          "compute",
		Description:   "do math",
		SuggestedNext: []string{"verify"},
		CommonTools:   []string{"calc"},
	})
	c.Add(ActionType{Name: "done", Description: "finished"})

	section := c.PromptSection()
	assert.Contains(t, section, "## Action Types")
	assert.Contains(t, section, "compute")
	assert.Contains(t, section, "do math")
	assert.Contains(t, section, "calc")
	assert.Contains(t, section, "verify")
	assert.Contains(t, section, "(terminal)")
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	for _, name := range []string{"analyze", "plan", "compute", "verify", "synthesize", "done"} {
		_, ok := c.Get(name)
		assert.True(t, ok, name)
	}

	assert.Empty(t, c.Suggestions("done"))
	assert.Contains(t, c.Suggestions("compute"), "verify")
	assert.Equal(t, "done", c.TerminalType())
}
