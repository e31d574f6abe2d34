package openai

// Model pricing last verified: December 14, 2025

// ChatModel represents an OpenAI chat model.
type ChatModel string

const (
	GPT52    ChatModel = "gpt-5.2"
	GPT52Pro ChatModel = "gpt-5.2-pro"

	GPT51     ChatModel = "gpt-5.1"
	GPT51Mini ChatModel = "gpt-5.1-mini"

	GPT5     ChatModel = "gpt-5"
	GPT5Mini ChatModel = "gpt-5-mini"
	GPT5Nano ChatModel = "gpt-5-nano"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = GPT51Mini
)

// ChatModelPricing contains pricing per million tokens (USD).
type ChatModelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Pricing returns the pricing for this model. Unknown models price at
// zero, so their cost figures read as unavailable rather than wrong.
func (m ChatModel) Pricing() ChatModelPricing {
	switch m {
	case GPT52:
		return ChatModelPricing{InputPerMillion: 1.75, OutputPerMillion: 14.00}
	case GPT52Pro:
		return ChatModelPricing{InputPerMillion: 3.50, OutputPerMillion: 28.00}
	case GPT51:
		return ChatModelPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}
	case GPT51Mini:
		return ChatModelPricing{InputPerMillion: 0.30, OutputPerMillion: 1.25}
	case GPT5:
		return ChatModelPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}
	case GPT5Mini:
		return ChatModelPricing{InputPerMillion: 0.25, OutputPerMillion: 1.00}
	case GPT5Nano:
		return ChatModelPricing{InputPerMillion: 0.10, OutputPerMillion: 0.40}
	default:
		return ChatModelPricing{}
	}
}

// Cost returns the dollar cost of a call with the given token counts.
func (m ChatModel) Cost(inputTokens, outputTokens int) float64 {
	p := m.Pricing()
	return float64(inputTokens)*p.InputPerMillion/1e6 +
		float64(outputTokens)*p.OutputPerMillion/1e6
}

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
