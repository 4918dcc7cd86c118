package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/plastinin/doctext/internal/domain"
	"github.com/plastinin/doctext/internal/usecase"
	"go.uber.org/zap"
)

// ErrPanic обработчик обновления упал с паникой
var ErrPanic = errors.New("update handler panicked")

// Conversation сценарий диалога, которому диспетчер передаёт события
type Conversation interface {
	HandleStart(ctx context.Context, chatID int64) (*usecase.Result, error)
	HandleUpload(ctx context.Context, in usecase.UploadInput) (*usecase.Result, error)
	HandleSelection(ctx context.Context, in usecase.SelectionInput) (*usecase.Result, error)
}

// CallbackAnswerer подтверждает нажатие inline-кнопки
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Dispatcher превращает обновления Telegram в события диалога
type Dispatcher struct {
	conversation Conversation
	callbacks    CallbackAnswerer
	logger       *zap.Logger
}

// NewDispatcher создаёт новый экземпляр Dispatcher
func NewDispatcher(conversation Conversation, callbacks CallbackAnswerer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		conversation: conversation,
		callbacks:    callbacks,
		logger:       logger,
	}
}

// Dispatch обрабатывает одно обновление. Ошибка означает внутренний сбой,
// пользовательские ошибки уже отвечены в чат.
func (d *Dispatcher) Dispatch(ctx context.Context, update tgbotapi.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Recovered from panic in update handler",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	var res *usecase.Result
	switch {
	case update.Message != nil:
		res, err = d.dispatchMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		res, err = d.dispatchCallback(ctx, update.CallbackQuery)
	default:
		return nil
	}

	if res != nil {
		d.logger.Debug("Update handled",
			zap.Int("update_id", update.UpdateID),
			zap.String("outcome", res.Outcome.String()),
			zap.String("state", res.State().String()),
		)
	}

	return err
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, msg *tgbotapi.Message) (*usecase.Result, error) {
	if msg.Chat == nil {
		return nil, nil
	}

	if msg.IsCommand() {
		if msg.Command() == "start" {
			return d.conversation.HandleStart(ctx, msg.Chat.ID)
		}
		return nil, nil
	}

	in, ok := uploadFromMessage(msg)
	if !ok {
		return nil, nil
	}

	return d.conversation.HandleUpload(ctx, in)
}

func (d *Dispatcher) dispatchCallback(ctx context.Context, query *tgbotapi.CallbackQuery) (*usecase.Result, error) {
	if !domain.IsFormatToken(query.Data) {
		return nil, nil
	}

	if err := d.callbacks.AnswerCallback(ctx, query.ID); err != nil {
		d.logger.Warn("Failed to answer callback", zap.String("callback_id", query.ID), zap.Error(err))
	}

	in := usecase.SelectionInput{
		Token: query.Data,
	}
	if query.From != nil {
		in.OwnerID = query.From.ID
		in.ChatID = query.From.ID
	}
	if query.Message != nil && query.Message.Chat != nil {
		in.ChatID = query.Message.Chat.ID
	}

	return d.conversation.HandleSelection(ctx, in)
}

// uploadFromMessage достаёт из сообщения документ или фото.
// Для фото берётся самый крупный размер.
func uploadFromMessage(msg *tgbotapi.Message) (usecase.UploadInput, bool) {
	in := usecase.UploadInput{
		OwnerID: msg.Chat.ID,
		ChatID:  msg.Chat.ID,
	}
	if msg.From != nil {
		in.OwnerID = msg.From.ID
	}

	switch {
	case msg.Document != nil:
		in.FileName = msg.Document.FileName
		in.FileRef = msg.Document.FileID
		in.FileSize = int64(msg.Document.FileSize)
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1]
		in.FileName = photoFileName(photo)
		in.FileRef = photo.FileID
		in.FileSize = int64(photo.FileSize)
	default:
		return in, false
	}

	return in, true
}

// Фото приходят без имени, а расширение нужно для выбора экстрактора
func photoFileName(photo tgbotapi.PhotoSize) string {
	return fmt.Sprintf("photo_%s.jpg", photo.FileUniqueID)
}
