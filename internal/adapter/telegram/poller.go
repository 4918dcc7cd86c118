package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UpdateSource поток обновлений long polling
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller получает обновления через getUpdates и раздаёт их диспетчеру.
// Обновления разных пользователей обрабатываются параллельно.
type Poller struct {
	source     UpdateSource
	dispatcher *Dispatcher
	timeout    int
	workers    int
	logger     *zap.Logger
}

// NewPoller создаёт новый экземпляр Poller
func NewPoller(source UpdateSource, dispatcher *Dispatcher, timeout, workers int, logger *zap.Logger) *Poller {
	if workers <= 0 {
		workers = 1
	}
	return &Poller{
		source:     source,
		dispatcher: dispatcher,
		timeout:    timeout,
		workers:    workers,
		logger:     logger,
	}
}

// Run читает обновления до отмены ctx и дожидается начатых обработчиков
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.timeout
	updates := p.source.GetUpdatesChan(u)

	var g errgroup.Group
	g.SetLimit(p.workers)

	p.logger.Info("Polling for updates", zap.Int("workers", p.workers))

loop:
	for {
		select {
		case <-ctx.Done():
			p.source.StopReceivingUpdates()
			break loop
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			g.Go(func() error {
				// Отмена ctx не обрывает уже начатый диалог
				if err := p.dispatcher.Dispatch(context.WithoutCancel(ctx), update); err != nil {
					p.logger.Error("Failed to handle update",
						zap.Int("update_id", update.UpdateID),
						zap.Error(err),
					)
				}
				return nil
			})
		}
	}

	return g.Wait()
}
