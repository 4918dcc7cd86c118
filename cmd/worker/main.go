package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/plastinin/doctext/internal/adapter/queue"
	"github.com/plastinin/doctext/internal/app"
	"github.com/plastinin/doctext/internal/config"
	"github.com/plastinin/doctext/pkg/logger"
	"go.uber.org/zap"
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

	log.Info("Starting doctext worker",
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("queue", cfg.Queue.Name),
		zap.Int("concurrency", cfg.Queue.Concurrency),
		zap.String("ocr_engine", cfg.OCR.Engine),
	)

	if cfg.Session.Backend == config.SessionBackendMemory {
		log.Warn("Sessions are kept in worker memory; run a single worker or use SESSION_BACKEND=redis")
	}

	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	consumer := queue.NewUpdateConsumer(cfg.Redis, cfg.Queue, application.Dispatcher, log)

	go func() {
		if err := consumer.Start(); err != nil {
			log.Fatal("Failed to start consumer", zap.Error(err))
		}
	}()

	log.Info("Worker started, waiting for updates...")

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")

	consumer.Stop()

	log.Info("Worker stopped")
}
