package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFormatStrict(t *testing.T) {
	schema := json.RawMessage(`{
		"type": "object",
		"properties": {
			"action_type": {"type": "string"},
			"is_done": {"type": "boolean"}
		},
		"required": ["action_type", "is_done"]
	}`)

	format := schemaFormat(schema)
	require.NotNil(t, format.OfJSONSchema)

	js := format.OfJSONSchema.JSONSchema
	assert.Equal(t, "turn_response", js.Name)
	assert.True(t, js.Strict.Value)

	m, ok := js.Schema.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, m["additionalProperties"])
}

func TestSchemaFormatFreeFormObjectDropsStrict(t *testing.T) {
	schema := json.RawMessage(`{
		"type": "object",
		"properties": {
			"tool_args": {"type": "object", "properties": {}}
		},
		"required": ["tool_args"]
	}`)

	format := schemaFormat(schema)
	require.NotNil(t, format.OfJSONSchema)
	assert.False(t, format.OfJSONSchema.JSONSchema.Strict.Value)

	m := format.OfJSONSchema.JSONSchema.Schema.(map[string]any)
	assert.NotContains(t, m, "additionalProperties")
}

func TestModelCost(t *testing.T) {
	// gpt-5.1-mini: $0.30 per million input, $1.25 per million output.
	cost := GPT51Mini.Cost(1_000_000, 1_000_000)
	assert.InDelta(t, 1.55, cost, 1e-9)

	assert.Zero(t, ChatModel("unlisted-model").Cost(1000, 1000))
}
