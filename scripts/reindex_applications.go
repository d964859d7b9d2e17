package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justttkumkum/talent-scout-ai/internal/config"
	"github.com/justttkumkum/talent-scout-ai/internal/repositories"
	"github.com/justttkumkum/talent-scout-ai/internal/services"
)

// Rebuilds the candidate similarity index from the applications table.
// Usage: go run scripts/reindex_applications.go
func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg := config.Load()
	if !cfg.IndexEnabled() {
		log.Fatal().Msg("QDRANT_URL and GEMINI_API_KEY must be set")
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	appRepo := repositories.NewApplicationRepository(db)

	geminiService, err := services.NewGeminiService(cfg.Gemini)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini")
	}

	index, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Qdrant")
	}

	ctx := context.Background()
	if err := index.EnsureCollection(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize collection")
	}

	indexer := services.NewApplicationIndexer(geminiService, index)

	apps, err := appRepo.FindAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load applications")
	}

	log.Info().Int("count", len(apps)).Msg("Reindexing applications")

	failed := 0
	for i := range apps {
		app := &apps[i]
		if err := indexer.IndexApplication(ctx, app); err != nil {
			log.Error().Err(err).Str("application_id", app.ID.String()).Msg("Failed to index")
			failed++
			continue
		}
		log.Info().Str("application_id", app.ID.String()).Str("name", app.Name).Msg("Indexed")
	}

	log.Info().Int("indexed", len(apps)-failed).Int("failed", failed).Msg("Reindex complete")
	if failed > 0 {
		os.Exit(1)
	}
}
