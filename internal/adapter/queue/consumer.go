package queue

import (
	"context"
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
	"github.com/plastinin/doctext/internal/config"
	"go.uber.org/zap"
)

// UpdateDispatcher обрабатывает одно обновление Telegram
type UpdateDispatcher interface {
	Dispatch(ctx context.Context, update tgbotapi.Update) error
}

// UpdateConsumer обрабатывает обновления из очереди
type UpdateConsumer struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	dispatcher UpdateDispatcher
	logger     *zap.Logger
}

// NewUpdateConsumer создаёт новый экземпляр UpdateConsumer
func NewUpdateConsumer(
	redisCfg config.RedisConfig,
	cfg config.QueueConfig,
	dispatcher UpdateDispatcher,
	logger *zap.Logger,
) *UpdateConsumer {
	server := asynq.NewServer(
		redisClientOpt(redisCfg),
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				cfg.Name: 1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	consumer := &UpdateConsumer{
		server:     server,
		mux:        asynq.NewServeMux(),
		dispatcher: dispatcher,
		logger:     logger,
	}

	consumer.mux.HandleFunc(TypeTelegramUpdate, consumer.HandleUpdate)

	return consumer
}

// Start запускает обработку задач
func (c *UpdateConsumer) Start() error {
	c.logger.Info("Starting update consumer")
	return c.server.Start(c.mux)
}

// Stop останавливает обработку задач
func (c *UpdateConsumer) Stop() {
	c.logger.Info("Stopping update consumer")
	c.server.Stop()
	c.server.Shutdown()
}

// HandleUpdate обрабатывает задачу с обновлением Telegram
func (c *UpdateConsumer) HandleUpdate(ctx context.Context, t *asynq.Task) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(t.Payload(), &update); err != nil {
		c.logger.Error("Failed to unmarshal update",
			zap.Error(err),
			zap.ByteString("payload", t.Payload()),
		)
		return fmt.Errorf("failed to unmarshal update: %v: %w", err, asynq.SkipRetry)
	}

	c.logger.Debug("Processing update", zap.Int("update_id", update.UpdateID))

	if err := c.dispatcher.Dispatch(ctx, update); err != nil {
		c.logger.Error("Failed to process update",
			zap.Int("update_id", update.UpdateID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// asynqLogger адаптер логгера для asynq
type asynqLogger struct {
	logger *zap.Logger
}

func newAsynqLogger(logger *zap.Logger) *asynqLogger {
	return &asynqLogger{logger: logger.Named("asynq")}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Fatal(fmt.Sprint(args...))
}
