package services

import (
	"context"
	"fmt"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
)

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ApplicationIndexer embeds an application's profile and writes it to the
// candidate index.
type ApplicationIndexer interface {
	IndexApplication(ctx context.Context, app *models.Application) error
}

type applicationIndexer struct {
	embedder      Embedder
	index         CandidateIndex
	promptBuilder *PromptBuilder
}

func NewApplicationIndexer(embedder Embedder, index CandidateIndex) ApplicationIndexer {
	return &applicationIndexer{
		embedder:      embedder,
		index:         index,
		promptBuilder: NewPromptBuilder(),
	}
}

func (ai *applicationIndexer) IndexApplication(ctx context.Context, app *models.Application) error {
	profile := ai.promptBuilder.BuildProfileText(app)

	embedding, err := ai.embedder.GenerateEmbedding(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to embed application %s: %w", app.ID, err)
	}

	candidateType := ""
	if app.CandidateType != nil {
		candidateType = *app.CandidateType
	}

	return ai.index.Upsert(ctx, IndexPoint{
		ApplicationID:  app.ID,
		CandidateType:  candidateType,
		Recommendation: string(app.Recommendation),
		Profile:        profile,
		Embedding:      embedding,
	})
}
