package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
	"github.com/justttkumkum/talent-scout-ai/internal/monitoring"
	"github.com/justttkumkum/talent-scout-ai/internal/repositories"
)

const DefaultSimilarLimit = 5

type ApplicationService interface {
	// Process runs one submission through analysis, persistence and the
	// optional webhook.
	Process(ctx context.Context, req models.ProcessApplicationRequest) (*models.ProcessApplicationResponse, error)
	List(ctx context.Context) ([]models.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Application, error)
	Similar(ctx context.Context, id uuid.UUID, limit int) ([]models.SimilarApplication, error)
	// Drain blocks until webhook deliveries already dispatched have finished.
	Drain()
}

type applicationService struct {
	appRepo       repositories.ApplicationRepository
	llm           ChatCompleter
	validator     RequestValidator
	webhook       WebhookNotifier
	indexQueue    IndexQueue
	index         CandidateIndex
	promptBuilder *PromptBuilder
	logger        zerolog.Logger
	deliveries    sync.WaitGroup
}

// NewApplicationService wires the pipeline. llm may be nil when no model
// credential is configured; indexQueue and index may be nil when the
// similarity index is disabled.
func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	llm ChatCompleter,
	validator RequestValidator,
	webhook WebhookNotifier,
	indexQueue IndexQueue,
	index CandidateIndex,
) ApplicationService {
	return &applicationService{
		appRepo:       appRepo,
		llm:           llm,
		validator:     validator,
		webhook:       webhook,
		indexQueue:    indexQueue,
		index:         index,
		promptBuilder: NewPromptBuilder(),
		logger:        log.With().Str("component", "pipeline").Logger(),
	}
}

func (s *applicationService) Process(ctx context.Context, req models.ProcessApplicationRequest) (*models.ProcessApplicationResponse, error) {
	resp, err := s.process(ctx, req)
	monitoring.ApplicationsProcessed.WithLabelValues(processOutcome(err)).Inc()
	return resp, err
}

func (s *applicationService) process(ctx context.Context, req models.ProcessApplicationRequest) (*models.ProcessApplicationResponse, error) {
	req.Normalize()

	if req.ResumeURL == "" {
		return nil, ErrMissingResume
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if s.llm == nil {
		return nil, ErrLLMNotConfigured
	}

	logger := s.logger.With().Str("email", req.Email).Logger()
	logger.Info().Msg("Analyzing application")

	reply, err := s.llm.Complete(ctx, SystemInstruction, s.promptBuilder.BuildAnalysisPrompt(req))
	if err != nil {
		logger.Error().Err(err).Msg("Model call failed")
		return nil, err
	}

	obj, err := ExtractJSON(reply)
	if err != nil {
		logger.Error().Err(err).Str("reply", reply).Msg("Model reply is not JSON")
		return nil, err
	}

	analysis, err := models.AnalysisFromObject(obj)
	if err != nil {
		logger.Error().Err(err).Msg("Model reply is missing analysis fields")
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}

	app := newApplicationRecord(req, analysis)
	if raw, err := json.Marshal(obj); err == nil {
		app.RawAnalysis = datatypes.JSON(raw)
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		logger.Error().Err(err).Msg("Failed to persist application")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	logger.Info().
		Str("application_id", app.ID.String()).
		Str("recommendation", string(analysis.Recommendation)).
		Msg("Application stored")

	if req.ZapierWebhook != "" && s.webhook != nil {
		submittedAt := app.CreatedAt
		if submittedAt.IsZero() {
			submittedAt = time.Now()
		}
		s.dispatchWebhook(context.WithoutCancel(ctx), logger, req.ZapierWebhook, models.NewWebhookPayload(req, analysis, submittedAt))
	}

	if s.indexQueue != nil {
		s.indexQueue.Enqueue(app.ID)
	}

	return &models.ProcessApplicationResponse{
		Success:     true,
		Application: app,
		Analysis:    analysis,
	}, nil
}

// dispatchWebhook delivers in the background so a slow or hanging receiver
// never holds up the response.
func (s *applicationService) dispatchWebhook(ctx context.Context, logger zerolog.Logger, url string, payload models.WebhookPayload) {
	s.deliveries.Add(1)
	go func() {
		defer s.deliveries.Done()
		if err := s.webhook.Notify(ctx, url, payload); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("Webhook delivery failed")
		}
	}()
}

func (s *applicationService) Drain() {
	s.deliveries.Wait()
}

func newApplicationRecord(req models.ProcessApplicationRequest, analysis *models.Analysis) *models.Application {
	technical := int(analysis.TechnicalSkill)
	experience := int(analysis.ExperienceRelevance)
	communication := int(analysis.Communication)
	education := int(analysis.EducationQuality)

	return &models.Application{
		ID:                       uuid.New(),
		Name:                     req.Name,
		Email:                    req.Email,
		LinkedinURL:              optionalString(req.LinkedinURL),
		TechStack:                req.TechStack,
		ResumeURL:                req.ResumeURL,
		CandidateType:            optionalString(analysis.CandidateType),
		TechnicalSkillScore:      &technical,
		ExperienceRelevanceScore: &experience,
		CommunicationScore:       &communication,
		EducationQualityScore:    &education,
		EducationCategory:        optionalString(analysis.EducationCategory),
		Strengths:                optionalString(analysis.Strengths),
		Weaknesses:               optionalString(analysis.Weaknesses),
		Recommendation:           analysis.Recommendation,
		ZapierWebhookURL:         optionalString(req.ZapierWebhook),
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func processOutcome(err error) string {
	var analysisErr *AnalysisError
	switch {
	case err == nil:
		return "success"
	case IsUserError(err):
		return "rejected"
	case errors.As(err, &analysisErr):
		return "llm_error"
	case errors.Is(err, ErrInvalidModelOutput):
		return "invalid_output"
	case errors.Is(err, ErrPersistence):
		return "db_error"
	default:
		return "error"
	}
}

func (s *applicationService) List(ctx context.Context) ([]models.Application, error) {
	return s.appRepo.FindAll(ctx)
}

func (s *applicationService) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return s.appRepo.FindByID(ctx, id)
}

// Similar returns the stored applications nearest to id, best match first.
func (s *applicationService) Similar(ctx context.Context, id uuid.UUID, limit int) ([]models.SimilarApplication, error) {
	if s.index == nil {
		return nil, ErrIndexDisabled
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	if _, err := s.appRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	hits, err := s.index.SimilarTo(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similarity index: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ApplicationID)
	}

	apps, err := s.appRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Application, len(apps))
	for _, app := range apps {
		byID[app.ID] = app
	}

	similar := make([]models.SimilarApplication, 0, len(hits))
	for _, hit := range hits {
		app, ok := byID[hit.ApplicationID]
		if !ok {
			continue
		}
		similar = append(similar, models.SimilarApplication{Application: app, Score: hit.Score})
	}

	return similar, nil
}
