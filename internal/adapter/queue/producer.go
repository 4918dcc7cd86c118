package queue

import (
	"context"
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
	"github.com/plastinin/doctext/internal/config"
)

// Типы задач
const (
	TypeTelegramUpdate = "telegram:update"
)

// UpdateProducer кладёт обновления Telegram в очередь
type UpdateProducer struct {
	client *asynq.Client
	cfg    config.QueueConfig
}

// NewUpdateProducer создаёт новый экземпляр UpdateProducer
func NewUpdateProducer(redisCfg config.RedisConfig, cfg config.QueueConfig) *UpdateProducer {
	client := asynq.NewClient(redisClientOpt(redisCfg))

	return &UpdateProducer{client: client, cfg: cfg}
}

// NewUpdateTask упаковывает обновление в задачу asynq
func NewUpdateTask(update tgbotapi.Update, cfg config.QueueConfig) (*asynq.Task, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update: %w", err)
	}

	return asynq.NewTask(TypeTelegramUpdate, payload,
		// Повтор отправил бы пользователю второй ответ
		asynq.MaxRetry(0),
		asynq.Queue(cfg.Name),
		asynq.Timeout(cfg.TaskTimeout),
	), nil
}

// Enqueue добавляет обновление в очередь
func (p *UpdateProducer) Enqueue(ctx context.Context, update tgbotapi.Update) error {
	task, err := NewUpdateTask(update, p.cfg)
	if err != nil {
		return err
	}

	if _, err := p.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue update: %w", err)
	}

	return nil
}

// Close закрывает соединение
func (p *UpdateProducer) Close() error {
	return p.client.Close()
}

func redisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
