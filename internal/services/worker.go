package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/justttkumkum/talent-scout-ai/internal/monitoring"
	"github.com/justttkumkum/talent-scout-ai/internal/repositories"
)

// IndexQueue accepts application ids for background indexing.
type IndexQueue interface {
	Enqueue(applicationID uuid.UUID)
}

type Worker interface {
	IndexQueue
	Start(ctx context.Context)
	Stop()
}

type worker struct {
	appRepo     repositories.ApplicationRepository
	indexer     ApplicationIndexer
	jobQueue    chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewWorker(
	appRepo repositories.ApplicationRepository,
	indexer ApplicationIndexer,
	concurrency int,
	queueSize int,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	return &worker{
		appRepo:     appRepo,
		indexer:     indexer,
		jobQueue:    make(chan uuid.UUID, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

func (w *worker) Start(ctx context.Context) {
	log.Info().Int("concurrency", w.concurrency).Msg("Starting index worker")

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Info().Msg("Stopping index worker")
		close(w.stopChan)
		w.wg.Wait()
		log.Info().Msg("Index worker stopped")
	})
}

// Enqueue never blocks the caller: when the queue is full or the worker is
// stopped the job is dropped and can be recovered with the reindex script.
func (w *worker) Enqueue(applicationID uuid.UUID) {
	select {
	case <-w.stopChan:
		log.Warn().Str("application_id", applicationID.String()).Msg("Index worker stopped, job dropped")
		monitoring.IndexJobs.WithLabelValues("dropped").Inc()
		return
	default:
	}

	select {
	case w.jobQueue <- applicationID:
		log.Debug().Str("application_id", applicationID.String()).Msg("Index job enqueued")
	default:
		log.Warn().Str("application_id", applicationID.String()).Msg("Index queue full, job dropped")
		monitoring.IndexJobs.WithLabelValues("dropped").Inc()
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case applicationID := <-w.jobQueue:
			w.process(ctx, workerID, applicationID)
		}
	}
}

func (w *worker) process(ctx context.Context, workerID int, applicationID uuid.UUID) {
	logger := log.With().Int("worker", workerID).Str("application_id", applicationID.String()).Logger()

	app, err := w.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load application for indexing")
		monitoring.IndexJobs.WithLabelValues("failed").Inc()
		return
	}

	if err := w.indexer.IndexApplication(ctx, app); err != nil {
		logger.Error().Err(err).Msg("Failed to index application")
		monitoring.IndexJobs.WithLabelValues("failed").Inc()
		return
	}

	logger.Info().Msg("Application indexed")
	monitoring.IndexJobs.WithLabelValues("success").Inc()
}
