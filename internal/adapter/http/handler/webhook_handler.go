package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// SecretTokenHeader заголовок, в котором Telegram присылает секрет вебхука
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxUpdateSize = 1 << 20

// UpdateHandler обрабатывает обновление сразу или кладёт его в очередь
type UpdateHandler interface {
	Dispatch(ctx context.Context, update tgbotapi.Update) error
}

// UpdateHandlerFunc адаптер функции к UpdateHandler
type UpdateHandlerFunc func(ctx context.Context, update tgbotapi.Update) error

func (f UpdateHandlerFunc) Dispatch(ctx context.Context, update tgbotapi.Update) error {
	return f(ctx, update)
}

// WebhookHandler принимает обновления Telegram
type WebhookHandler struct {
	updates UpdateHandler
	secret  string
	logger  *zap.Logger
}

// NewWebhookHandler создаёт новый WebhookHandler. Пустой secret отключает проверку.
func NewWebhookHandler(updates UpdateHandler, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		updates: updates,
		secret:  secret,
		logger:  logger,
	}
}

// Handle принимает одно обновление
// POST /telegram/webhook
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		got := r.Header.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			respondError(w, h.logger, http.StatusUnauthorized, "unauthorized", "Invalid secret token")
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateSize)

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Warn("Failed to decode update", zap.Error(err))
		respondError(w, h.logger, http.StatusBadRequest, "invalid_update", "Failed to decode update")
		return
	}

	// Telegram ждёт ответа недолго, но диалог должен доработать до конца
	if err := h.updates.Dispatch(context.WithoutCancel(r.Context()), update); err != nil {
		h.logger.Error("Failed to handle update",
			zap.Int("update_id", update.UpdateID),
			zap.Error(err),
		)
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "Failed to handle update")
		return
	}

	w.WriteHeader(http.StatusOK)
}
