package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/plastinin/doctext/internal/config"
	"github.com/plastinin/doctext/internal/domain"
	"github.com/plastinin/doctext/pkg/bounded"
	"go.uber.org/zap"
)

// Client обёртка над Bot API: отправка сообщений и скачивание файлов
type Client struct {
	bot        *tgbotapi.BotAPI
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создаёт клиента и проверяет токен через getMe
func NewClient(cfg config.TelegramConfig, logger *zap.Logger) (*Client, error) {
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, cfg.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	bot.Debug = cfg.Debug

	logger.Info("Authorized in Telegram", zap.String("username", bot.Self.UserName))

	return &Client{
		bot:        bot,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Bot возвращает нижележащий BotAPI
func (c *Client) Bot() *tgbotapi.BotAPI {
	return c.bot
}

// SendText отправляет текстовое сообщение
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.send(ctx, tgbotapi.NewMessage(chatID, text))
}

// SendChoice отправляет сообщение с inline-кнопками, по одной в строке
func (c *Client) SendChoice(ctx context.Context, chatID int64, text string, choices []domain.Choice) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = choiceKeyboard(choices)
	return c.send(ctx, msg)
}

// SendDocument отправляет файл документом. Содержимое читается в память до
// отправки, поэтому r можно закрыть сразу после возврата. Загрузка не
// прерывается по ctx: её ограничивает таймаут HTTP-клиента, а результат
// всегда соответствует тому, что получил пользователь.
func (c *Client) SendDocument(ctx context.Context, chatID int64, fileName string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: data,
	})
	if _, err := c.bot.Send(doc); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

// AnswerCallback снимает «часики» с нажатой кнопки
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	return bounded.Run(ctx, func() error {
		if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
			return fmt.Errorf("failed to answer callback: %w", err)
		}
		return nil
	})
}

// Fetch скачивает файл по его file_id
func (c *Client) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	url, err := bounded.Call(ctx, func() (string, error) {
		return c.bot.GetFileDirectURL(fileID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func (c *Client) send(ctx context.Context, msg tgbotapi.Chattable) error {
	return bounded.Run(ctx, func() error {
		if _, err := c.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		return nil
	})
}

func choiceKeyboard(choices []domain.Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(choice.Label, choice.Token),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
