package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/plastinin/doctext/internal/adapter/http/handler"
	"github.com/plastinin/doctext/internal/adapter/queue"
	"github.com/plastinin/doctext/internal/app"
	"github.com/plastinin/doctext/internal/config"
	"github.com/plastinin/doctext/pkg/logger"
	"go.uber.org/zap"

	apphttp "github.com/plastinin/doctext/internal/adapter/http"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Инициализируем логгер
	log := logger.Must(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	log.Info("Starting doctext webhook API",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("queue_enabled", cfg.Queue.Enabled),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	// Обновления обрабатываются здесь же или уходят в очередь для cmd/worker
	var updates handler.UpdateHandler = application.Dispatcher
	if cfg.Queue.Enabled {
		producer := queue.NewUpdateProducer(cfg.Redis, cfg.Queue)
		defer producer.Close()
		updates = handler.UpdateHandlerFunc(producer.Enqueue)
		log.Info("Updates are enqueued",
			zap.String("redis", cfg.Redis.Addr()),
			zap.String("queue", cfg.Queue.Name),
		)
	}

	if cfg.Telegram.WebhookSecret == "" {
		log.Warn("TELEGRAM_WEBHOOK_SECRET is empty, webhook requests are not authenticated")
	}

	webhookHandler := handler.NewWebhookHandler(updates, cfg.Telegram.WebhookSecret, log)
	healthHandler := handler.NewHealthHandler(application.HealthChecks(), log)

	var jobHandler *handler.JobHandler
	if application.Jobs != nil {
		jobHandler = handler.NewJobHandler(application.Jobs, log)
	}

	router := apphttp.NewRouter(webhookHandler, healthHandler, jobHandler, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", cfg.Server.Addr()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
