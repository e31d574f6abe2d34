package claudecli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// buildStatePrompt combines the per-turn instructions with the required
// response schema and a small example object showing the expected shape.
func buildStatePrompt(instructions string, schema json.RawMessage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[INSTRUCTIONS]\n%s\n\n", instructions)
	fmt.Fprintf(&b, "[REQUIRED JSON SCHEMA]\n%s\n\n", indentJSON(schema))
	if example := exampleFor(schema); example != "" {
		fmt.Fprintf(&b, "[EXAMPLE FORMAT]\n%s\n\n", example)
	}
	b.WriteString("Respond with ONLY the JSON object.")

	return b.String()
}

// exampleFor builds a placeholder object from the schema's top-level
// properties: the first enum value where one exists, an empty object or
// false for objects and booleans, and a <key> placeholder otherwise.
func exampleFor(schema json.RawMessage) string {
	var parsed struct {
		Properties map[string]struct {
			Type string `json:"type"`
			Enum []any  `json:"enum"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(schema, &parsed); err != nil || len(parsed.Properties) == 0 {
		return ""
	}

	keys := make([]string, 0, len(parsed.Properties))
	for key := range parsed.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	example := make(map[string]any, len(keys))
	for _, key := range keys {
		prop := parsed.Properties[key]
		switch {
		case len(prop.Enum) > 0:
			example[key] = prop.Enum[0]
		case prop.Type == "object":
			example[key] = map[string]any{}
		case prop.Type == "boolean":
			example[key] = false
		case prop.Type == "array":
			example[key] = []any{}
		default:
			example[key] = fmt.Sprintf("<%s>", key)
		}
	}

	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(example); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

func indentJSON(raw json.RawMessage) string {
	var buf strings.Builder
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return string(raw)
	}
	return strings.TrimRight(buf.String(), "\n")
}
