package main

import (
	"context"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/plastinin/doctext/internal/adapter/telegram"
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

	log.Info("Starting doctext bot (long polling)",
		zap.String("ocr_engine", cfg.OCR.Engine),
		zap.String("pdf_engine", cfg.PDF.Engine),
		zap.String("session_backend", cfg.Session.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	// getUpdates не работает, пока у бота установлен вебхук
	if _, err := application.Telegram.Bot().Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.Warn("Failed to delete webhook", zap.Error(err))
	}

	poller := telegram.NewPoller(
		application.Telegram.Bot(),
		application.Dispatcher,
		cfg.Telegram.PollTimeout,
		cfg.Telegram.Workers,
		log,
	)

	if err := poller.Run(ctx); err != nil {
		log.Error("Poller stopped with error", zap.Error(err))
	}

	log.Info("Bot stopped")
}
