// Package app собирает зависимости, общие для cmd/api, cmd/worker и cmd/bot.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plastinin/doctext/internal/adapter/export"
	"github.com/plastinin/doctext/internal/adapter/http/handler"
	"github.com/plastinin/doctext/internal/adapter/ocr"
	"github.com/plastinin/doctext/internal/adapter/pdf"
	"github.com/plastinin/doctext/internal/adapter/repository"
	"github.com/plastinin/doctext/internal/adapter/session"
	"github.com/plastinin/doctext/internal/adapter/storage"
	"github.com/plastinin/doctext/internal/adapter/telegram"
	"github.com/plastinin/doctext/internal/config"
	"github.com/plastinin/doctext/internal/usecase"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App готовый к работе граф зависимостей
type App struct {
	Telegram     *telegram.Client
	Dispatcher   *telegram.Dispatcher
	Conversation *usecase.ConversationUseCase
	// nil, если журнал выключен
	Jobs *usecase.JobUseCase

	redis  *redis.Client
	db     *pgxpool.Pool
	ollama *ocr.OllamaEngine
	stop   context.CancelFunc
	logger *zap.Logger
}

// New инициализирует движки, хранилища и Telegram клиент
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (a *App, err error) {
	bgCtx, stop := context.WithCancel(context.Background())
	a = &App{stop: stop, logger: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	imageExtractor := ocr.NewImageExtractor(a.newOCREngine(ctx, cfg), cfg.OCR.Languages, log)
	pdfExtractor := pdf.NewExtractor(newPDFEngine(cfg), log)
	router := usecase.NewExtractorRouter(imageExtractor, pdfExtractor)

	converter := export.NewConverter(export.NewPDFRenderer(cfg.Export, log), log)

	sessions, err := a.newSessionStore(ctx, bgCtx, cfg)
	if err != nil {
		return nil, err
	}

	tempStorage, err := storage.NewTempStorage(cfg.Storage.TempDir, cfg.Limits.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to init temp storage: %w", err)
	}
	log.Info("Temp storage ready", zap.String("dir", tempStorage.BaseDir()))

	var jobRepo usecase.JobRepository
	if cfg.Database.Enabled {
		a.db, err = repository.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(ctx, a.db); err != nil {
			return nil, err
		}
		repo := repository.NewJobRepository(a.db)
		jobRepo = repo
		a.Jobs = usecase.NewJobUseCase(repo, log)
		log.Info("Connected to PostgreSQL, job journal enabled")
	}

	a.Telegram, err = telegram.NewClient(cfg.Telegram, log)
	if err != nil {
		return nil, err
	}

	a.Conversation = usecase.NewConversationUseCase(
		router,
		converter,
		sessions,
		tempStorage,
		a.Telegram,
		a.Telegram,
		jobRepo,
		usecase.Policy{
			ExtractTimeout:   cfg.Limits.ExtractTimeout,
			ExportTimeout:    cfg.Limits.ExportTimeout,
			ClearAfterExport: cfg.Session.ClearAfterExport,
			MaxFileSize:      cfg.Limits.MaxFileSize,
		},
		log,
	)
	a.Dispatcher = telegram.NewDispatcher(a.Conversation, a.Telegram, log)

	return a, nil
}

func (a *App) newOCREngine(ctx context.Context, cfg *config.Config) ocr.Engine {
	if cfg.OCR.Engine == config.OCREngineOllama {
		a.ollama = ocr.NewOllamaEngine(cfg.Ollama, a.logger)
		if err := a.ollama.CheckHealth(ctx); err != nil {
			a.logger.Warn("Ollama health check failed", zap.Error(err))
		}
		a.logger.Info("Using Ollama OCR engine",
			zap.String("host", cfg.Ollama.Host),
			zap.String("model", cfg.Ollama.Model),
		)
		return a.ollama
	}

	engine := ocr.NewTesseractEngine()
	a.logger.Info("Using Tesseract OCR engine",
		zap.String("version", engine.Version()),
		zap.Strings("languages", cfg.OCR.Languages),
	)
	return engine
}

func newPDFEngine(cfg *config.Config) pdf.Engine {
	if cfg.PDF.Engine == config.PDFEngineNative {
		return pdf.NewNativeEngine()
	}
	return pdf.NewFitzEngine()
}

func (a *App) newSessionStore(ctx, bgCtx context.Context, cfg *config.Config) (usecase.SessionStore, error) {
	if cfg.Session.Backend == config.SessionBackendRedis {
		client, err := session.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.logger.Info("Sessions stored in Redis", zap.String("addr", cfg.Redis.Addr()))
		return session.NewRedisStore(client, cfg.Session.TTL), nil
	}

	store := session.NewMemoryStore(cfg.Session.TTL, a.logger)
	go store.Run(bgCtx, cfg.Session.SweepInterval)
	a.logger.Info("Sessions stored in memory", zap.Duration("ttl", cfg.Session.TTL))
	return store, nil
}

// HealthChecks проверки внешних зависимостей для /health
func (a *App) HealthChecks() map[string]handler.HealthCheck {
	checks := make(map[string]handler.HealthCheck)
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}
	}
	if a.db != nil {
		checks["postgres"] = a.db.Ping
	}
	if a.ollama != nil {
		checks["ollama"] = a.ollama.CheckHealth
	}
	return checks
}

// Close освобождает соединения и останавливает фоновую очистку
func (a *App) Close() {
	a.stop()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
