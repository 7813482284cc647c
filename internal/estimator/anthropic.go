package estimator

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model is configured
const DefaultModel = anthropic.ModelClaude3_5Haiku20241022

// AnthropicEstimator estimates story counts through the Anthropic Messages API
type AnthropicEstimator struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicEstimator creates an API-backed estimator. An empty model
// selects DefaultModel. Extra client options are passed to the SDK.
func NewAnthropicEstimator(apiKey, model string, opts ...option.RequestOption) (*AnthropicEstimator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrUnavailable)
	}

	m := DefaultModel
	if model != "" {
		m = anthropic.Model(model)
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicEstimator{
		client: anthropic.NewClient(opts...),
		model:  m,
	}, nil
}

// Estimate asks the model for a story count
func (e *AnthropicEstimator) Estimate(ctx context.Context, description string) (int, error) {
	resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     e.model,
		MaxTokens: 200,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(description))),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("Claude API error: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return 0, fmt.Errorf("empty response from Claude API")
	}

	return ParseEstimate(responseText)
}
