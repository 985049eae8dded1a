package advisor

import (
	"context"

	"fintrack-server/src/models"

	openai "github.com/sashabaranov/go-openai"
)

// Completer is the external completion service: prompt in, text out. No
// latency bound is guaranteed; callers own timeouts and retries.
type Completer interface {
	Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error)
}

const fallbackAdvice = "Sorry, I couldn't generate advice at this time."

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	model  string
	client *openai.Client
}

func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClient{
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", &ServiceError{Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fallbackAdvice, nil
	}
	return resp.Choices[0].Message.Content, nil
}
