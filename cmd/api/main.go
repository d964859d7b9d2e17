package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justttkumkum/talent-scout-ai/internal/config"
	"github.com/justttkumkum/talent-scout-ai/internal/handlers"
	"github.com/justttkumkum/talent-scout-ai/internal/monitoring"
	"github.com/justttkumkum/talent-scout-ai/internal/repositories"
	"github.com/justttkumkum/talent-scout-ai/internal/services"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)
	log.Info().Str("env", cfg.Server.Env).Msg("Config loaded")

	monitoring.Init()
	if cfg.Monitoring.SentryDSN != "" {
		if err := monitoring.InitSentry(cfg.Monitoring.SentryDSN, cfg.Server.Env); err != nil {
			log.Warn().Err(err).Msg("Sentry disabled")
		} else {
			defer monitoring.FlushSentry()
		}
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to access database pool")
	}

	appRepo := repositories.NewApplicationRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageService, err := services.NewStorageService(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	if err := storageService.EnsureReady(ctx); err != nil {
		log.Fatal().Err(err).Msg("Storage is not ready")
	}
	resolver := services.NewResumeResolver(storageService, services.NewDocumentParser(), cfg.Storage.MaxFileSize)

	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.Gemini)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Gemini")
		}
	}

	llm, err := newChatCompleter(cfg, geminiService)
	if err != nil {
		log.Warn().Err(err).Msg("Model client not configured, submissions will fail until it is")
	}

	var (
		index  services.CandidateIndex
		worker services.Worker
		queue  services.IndexQueue
	)
	if cfg.IndexEnabled() {
		index, err = services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Qdrant")
		}
		if err := index.EnsureCollection(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Qdrant collection")
		}

		worker = services.NewWorker(
			appRepo,
			services.NewApplicationIndexer(geminiService, index),
			cfg.Worker.Concurrency,
			cfg.Worker.QueueSize,
		)
		worker.Start(ctx)
		queue = worker
		log.Info().Str("collection", cfg.Qdrant.Collection).Msg("Similarity index enabled")
	} else {
		log.Info().Msg("Similarity index disabled")
	}

	validator := services.NewRequestValidator()
	appService := services.NewApplicationService(
		appRepo,
		llm,
		validator,
		services.NewWebhookNotifier(nil),
		queue,
		index,
	)

	applicationHandler := handlers.NewApplicationHandler(appService, resolver, validator, cfg.Storage.MaxFileSize)
	uploadHandler := handlers.NewUploadHandler(resolver, cfg.Storage.MaxFileSize)
	metaHandler := handlers.NewMetaHandler(sqlDB)

	app := fiber.New(fiber.Config{
		AppName:      "Talent Scout AI",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(handlers.CORS())
	app.Use(monitoring.Middleware())

	if cfg.Storage.Driver == config.StorageLocal {
		app.Static(services.LocalFilesRoute, cfg.Storage.UploadPath)
	}

	handlers.RegisterRoutes(app, handlers.Handlers{
		Application: applicationHandler,
		Upload:      uploadHandler,
		Meta:        metaHandler,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	shutdownDone := onShutdown(quit, app, 30*time.Second, appService.Drain, func() {
		if worker != nil {
			worker.Stop()
		}
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("Server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}

	<-shutdownDone
	log.Info().Msg("Server stopped")
}

// onShutdown stops app on the first signal from quit, then runs cleanup in
// order. The returned channel closes once every step has finished.
func onShutdown(quit <-chan os.Signal, app *fiber.App, timeout time.Duration, cleanup ...func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-quit
		log.Info().Msg("Shutting down server")
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		for _, fn := range cleanup {
			fn()
		}
	}()
	return done
}

// newChatCompleter returns the client for the configured provider.
func newChatCompleter(cfg *config.Config, gemini services.GeminiService) (services.ChatCompleter, error) {
	if cfg.LLM.Provider == config.ProviderGemini {
		if gemini == nil {
			return nil, fmt.Errorf("GEMINI_API_KEY not configured")
		}
		return gemini, nil
	}

	return services.NewGatewayClient(cfg.LLM)
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsDevelopment() {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if code >= fiber.StatusInternalServerError {
		monitoring.CaptureError(err, map[string]interface{}{"path": c.Path()})
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
