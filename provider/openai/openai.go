// Package openai implements the provider contract with the OpenAI SDK.
// Structured output uses the json_schema response format; cost is
// derived from token counts and the model pricing table.
package openai

import (
	"context"
	"encoding/json"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	ca "github.com/spetersoncode/chainact"
	"github.com/spetersoncode/chainact/provider"
)

// Provider implements the reasoning-engine contract over the OpenAI
// SDK. The transport is stateless: the full conversation is sent on
// every call, so no session capability is exposed.
type Provider struct {
	client *openai.Client
	model  ChatModel
}

// Option configures the Provider.
type Option func(*Provider)

// WithAPIKey sets the API key explicitly instead of using the
// OPENAI_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(p *Provider) {
		client := openai.NewClient(option.WithAPIKey(key))
		p.client = &client
	}
}

// WithModel sets the model for requests.
func WithModel(model ChatModel) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// New creates an OpenAI provider. It reads the API key from the
// OPENAI_API_KEY environment variable unless WithAPIKey is given.
func New(opts ...Option) *Provider {
	p := &Provider{model: DefaultChatModel}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		client := openai.NewClient()
		p.client = &client
	}
	return p
}

// Call sends the conversation with the instructions as a system message
// and the response schema as a json_schema response format. Content
// that fails to parse as an object yields nil Fields.
func (p *Provider) Call(ctx context.Context, messages []ca.Message, instructions string, schema json.RawMessage) (*provider.Response, error) {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if instructions != "" {
		converted = append(converted, openai.SystemMessage(instructions))
	}
	for _, msg := range messages {
		switch msg.Role {
		case ca.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(msg.Content))
		case ca.RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:          p.model.String(),
		Messages:       converted,
		ResponseFormat: schemaFormat(schema),
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	raw := ""
	var fields map[string]any
	if len(resp.Choices) > 0 {
		raw = resp.Choices[0].Message.Content
		var parsed map[string]any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			fields = parsed
		}
	}

	inputTokens := int(resp.Usage.PromptTokens)
	outputTokens := int(resp.Usage.CompletionTokens)

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

// schemaFormat builds the json_schema response format. Strict mode
// requires additionalProperties:false on every object; a schema with a
// free-form object (such as open tool arguments) cannot satisfy that,
// so strictness is dropped for it.
func schemaFormat(schema json.RawMessage) openai.ChatCompletionNewParamsResponseFormatUnion {
	var schemaMap map[string]any
	json.Unmarshal(schema, &schemaMap)

	strict := !hasFreeFormObject(schemaMap)
	if strict {
		closeObjects(schemaMap)
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			Type: "json_schema",
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   "turn_response",
				Schema: schemaMap,
				Strict: openai.Bool(strict),
			},
		},
	}
}

func hasFreeFormObject(schema map[string]any) bool {
	if schema == nil {
		return false
	}
	if t, _ := schema["type"].(string); t == "object" {
		props, ok := schema["properties"].(map[string]any)
		if !ok || len(props) == 0 {
			return true
		}
		for _, prop := range props {
			if m, ok := prop.(map[string]any); ok && hasFreeFormObject(m) {
				return true
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		return hasFreeFormObject(items)
	}
	return false
}

func closeObjects(schema map[string]any) {
	if schema == nil {
		return
	}
	if t, _ := schema["type"].(string); t == "object" {
		schema["additionalProperties"] = false
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				closeObjects(m)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		closeObjects(items)
	}
}

var _ provider.Provider = (*Provider)(nil)
