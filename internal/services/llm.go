package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/justttkumkum/talent-scout-ai/internal/config"
	"github.com/justttkumkum/talent-scout-ai/internal/monitoring"
)

// ChatCompleter sends one system+user exchange to a chat model and returns
// the raw text of the first reply.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type gatewayClient struct {
	client *openai.Client
	model  string
}

// NewGatewayClient talks to any OpenAI compatible chat completions endpoint.
func NewGatewayClient(cfg config.LLMConfig) (ChatCompleter, error) {
	if cfg.APIKey == "" {
		return nil, ErrLLMNotConfigured
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &gatewayClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

func (g *gatewayClient) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		status := statusFromOpenAIError(err)
		monitoring.LLMRequestDuration.WithLabelValues(config.ProviderGateway, fmt.Sprint(status)).Observe(time.Since(start).Seconds())
		if status != 0 {
			return "", &AnalysisError{StatusCode: status, Err: err}
		}
		return "", fmt.Errorf("failed to call model gateway: %w", err)
	}

	monitoring.LLMRequestDuration.WithLabelValues(config.ProviderGateway, "200").Observe(time.Since(start).Seconds())

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: reply has no choices", ErrInvalidModelOutput)
	}

	return resp.Choices[0].Message.Content, nil
}

func statusFromOpenAIError(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}

	return 0
}
