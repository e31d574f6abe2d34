package claudecli

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	ca "github.com/spetersoncode/chainact"
)

// streamEvent is one line of the CLI's stream-json output, decoded
// loosely since event shapes vary by type.
type streamEvent map[string]any

// parseStreamEvents decodes the newline-delimited JSON event stream.
// Undecodable lines are skipped.
func parseStreamEvents(output string) []streamEvent {
	var events []streamEvent
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var ev streamEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// extractToolCalls pairs tool_use blocks from assistant events with
// tool_result blocks from user events, in use order. MCP tool names of
// the form mcp__server__tool are shortened to the bare tool name.
func extractToolCalls(events []streamEvent) []ca.ToolInvocation {
	var order []string
	pending := make(map[string]ca.ToolInvocation)

	for _, ev := range events {
		switch ev["type"] {
		case "assistant":
			for _, block := range contentBlocks(ev) {
				if block["type"] != "tool_use" {
					continue
				}
				id, _ := block["id"].(string)
				name, _ := block["name"].(string)
				args, _ := block["input"].(map[string]any)
				pending[id] = ca.ToolInvocation{Name: shortToolName(name), Args: args}
				order = append(order, id)
			}
		case "user":
			for _, block := range contentBlocks(ev) {
				if block["type"] != "tool_result" {
					continue
				}
				id, _ := block["tool_use_id"].(string)
				inv, ok := pending[id]
				if !ok {
					continue
				}
				inv.Result = resultContent(block["content"])
				pending[id] = inv
			}
		}
	}

	calls := make([]ca.ToolInvocation, 0, len(order))
	for _, id := range order {
		calls = append(calls, pending[id])
	}
	return calls
}

// extractResultText returns the final result event's text, falling back
// to the concatenated assistant text blocks when no result event exists.
func extractResultText(events []streamEvent) string {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i]["type"] == "result" {
			if s, ok := events[i]["result"].(string); ok {
				return s
			}
		}
	}

	var parts []string
	for _, ev := range events {
		if ev["type"] != "assistant" {
			continue
		}
		for _, block := range contentBlocks(ev) {
			if block["type"] == "text" {
				if s, ok := block["text"].(string); ok {
					parts = append(parts, s)
				}
			}
		}
	}
	return strings.Join(parts, "\n")
}

// extractUsage reads cost and timing from the result event.
func extractUsage(events []streamEvent) (costUSD float64, durationMS int64) {
	for _, ev := range events {
		if ev["type"] != "result" {
			continue
		}
		if v, ok := ev["total_cost_usd"].(float64); ok {
			costUSD = v
		}
		if v, ok := ev["duration_ms"].(float64); ok {
			durationMS = int64(v)
		}
	}
	return costUSD, durationMS
}

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSON   = regexp.MustCompile(`(?s)\{.*\}`)
)

// parseJSONResponse parses the structured JSON object out of the model's
// response text, tolerating markdown code fences and surrounding prose.
// Returns nil when no object can be recovered.
func parseJSONResponse(text string) map[string]any {
	if text == "" {
		return nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err == nil {
		return fields
	}
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &fields); err == nil {
			return fields
		}
	}
	if m := bareJSON.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), &fields); err == nil {
			return fields
		}
	}
	return nil
}

func contentBlocks(ev streamEvent) []map[string]any {
	msg, _ := ev["message"].(map[string]any)
	raw, _ := msg["content"].([]any)
	blocks := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if block, ok := item.(map[string]any); ok {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// resultContent flattens a tool_result content value, which arrives
// either as a plain string or as a list of text blocks.
func resultContent(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case []any:
		var parts []string
		for _, item := range v {
			block, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := block["text"].(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func shortToolName(name string) string {
	parts := strings.Split(name, "__")
	return parts[len(parts)-1]
}
