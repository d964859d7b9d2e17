package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/justttkumkum/talent-scout-ai/internal/config"
	"github.com/justttkumkum/talent-scout-ai/internal/monitoring"
)

// maxEmbedChars keeps embedding input well under the model's token limit.
const maxEmbedChars = 40000

type GeminiService interface {
	ChatCompleter
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiService(cfg config.GeminiConfig) (GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not configured")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  cfg.Model,
		embedModel: cfg.EmbedModel,
	}, nil
}

func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Complete runs the analysis prompt directly against Gemini.
func (g *geminiService) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   4096,
	})
	if err != nil {
		status := statusFromGenAIError(err)
		monitoring.LLMRequestDuration.WithLabelValues(config.ProviderGemini, fmt.Sprint(status)).Observe(time.Since(start).Seconds())
		log.Error().Err(err).Int("status", status).Msg("Gemini API error")
		if status != 0 {
			return "", &AnalysisError{StatusCode: status, Err: err}
		}
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	monitoring.LLMRequestDuration.WithLabelValues(config.ProviderGemini, "200").Observe(time.Since(start).Seconds())

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrInvalidModelOutput)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: no text content in response", ErrInvalidModelOutput)
	}

	return text, nil
}

func statusFromGenAIError(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}

	return 0
}
