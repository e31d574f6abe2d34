// Package anthropic implements the provider contract with the Anthropic
// SDK. Structured output is obtained by forcing a synthetic "respond"
// tool whose input schema is the requested response schema; the tool
// input comes back as the structured fields. Cost is derived from token
// counts and the model pricing table.
package anthropic

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	ca "github.com/spetersoncode/chainact"
	"github.com/spetersoncode/chainact/provider"
)

// respondToolName is the synthetic tool used to force structured output.
const respondToolName = "respond"

const defaultMaxTokens = 2048

// Provider implements the reasoning-engine contract over the Anthropic
// SDK. The transport is stateless: the full conversation is sent on
// every call, so no session capability is exposed.
type Provider struct {
	client    *anthropic.Client
	model     ChatModel
	maxTokens int64
}

// Option configures the Provider.
type Option func(*Provider)

// WithAPIKey sets the API key explicitly instead of using the
// ANTHROPIC_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(p *Provider) {
		client := anthropic.NewClient(option.WithAPIKey(key))
		p.client = &client
	}
}

// WithModel sets the model for requests.
func WithModel(model ChatModel) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int64) Option {
	return func(p *Provider) {
		p.maxTokens = n
	}
}

// New creates an Anthropic provider. It reads the API key from the
// ANTHROPIC_API_KEY environment variable unless WithAPIKey is given.
func New(opts ...Option) *Provider {
	p := &Provider{
		model:     DefaultChatModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		client := anthropic.NewClient()
		p.client = &client
	}
	return p
}

// Call sends the conversation with the instructions as system text and
// the response schema as a forced tool. A model that answers with plain
// text instead of the tool yields nil Fields.
func (p *Provider) Call(ctx context.Context, messages []ca.Message, instructions string, schema json.RawMessage) (*provider.Response, error) {
	tool, toolChoice := respondTool(schema)

	params := anthropic.MessageNewParams{
		Model:      anthropic.Model(p.model.String()),
		MaxTokens:  p.maxTokens,
		Messages:   convertMessages(messages),
		Tools:      []anthropic.ToolUnionParam{tool},
		ToolChoice: toolChoice,
	}
	if instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: instructions}}
	}

	start := time.Now()
	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	var fields map[string]any
	raw := ""
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			raw += block.Text
		case "tool_use":
			if block.Name == respondToolName {
				raw = string(block.Input)
				var parsed map[string]any
				if err := json.Unmarshal(block.Input, &parsed); err == nil {
					fields = parsed
				}
			}
		}
	}

	inputTokens := int(resp.Usage.InputTokens)
	outputTokens := int(resp.Usage.OutputTokens)

	return &provider.Response{
		Fields: fields,
		Usage: ca.TokenUsage{
			CostUSD:      p.model.Cost(inputTokens, outputTokens),
			DurationMS:   elapsed.Milliseconds(),
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
		},
		Raw: raw,
	}, nil
}

// respondTool builds the forced structured-output tool from the
// response schema.
func respondTool(schema json.RawMessage) (anthropic.ToolUnionParam, anthropic.ToolChoiceUnionParam) {
	var parsed map[string]any
	if len(schema) > 0 {
		json.Unmarshal(schema, &parsed)
	}

	var required []string
	if reqVal, ok := parsed["required"].([]any); ok {
		for _, r := range reqVal {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
	}

	tool := anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        respondToolName,
			Description: anthropic.String("Record your structured response for this turn"),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: parsed["properties"],
				Required:   required,
			},
		},
	}
	toolChoice := anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{Name: respondToolName},
	}
	return tool, toolChoice
}

func convertMessages(messages []ca.Message) []anthropic.MessageParam {
	var result []anthropic.MessageParam
	for _, msg := range messages {
		switch msg.Role {
		case ca.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return result
}

var _ provider.Provider = (*Provider)(nil)
