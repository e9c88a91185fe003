package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client using the OpenAI SDK. It also supports
// OpenAI-compatible APIs via OPENAI_BASE_URL.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI-backed client.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		config: config,
	}, nil
}

// GenerateContent generates interview text using the specified model tier.
func (c *OpenAIClient) GenerateContent(ctx context.Context, system, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, system, prompt, tier, nil)
}

// GenerateJSON generates JSON content using the specified model tier.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, system, prompt string, tier ModelTier) (string, error) {
	format := &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	text, err := c.complete(ctx, system, prompt, tier, format)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// Close is a no-op; the OpenAI SDK holds no persistent resources.
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) complete(ctx context.Context, system, prompt string, tier ModelTier, format *openai.ChatCompletionResponseFormat) (string, error) {
	model := c.config.GetModel(tier)
	if model == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          model,
		Messages:       messages,
		Temperature:    0.7,
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
