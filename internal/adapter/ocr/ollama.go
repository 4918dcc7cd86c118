package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/plastinin/doctext/internal/config"
	"go.uber.org/zap"
)

// Названия языков для промпта по кодам tesseract
var languageNames = map[string]string{
	"rus": "Russian",
	"eng": "English",
	"ukr": "Ukrainian",
	"deu": "German",
	"fra": "French",
}

// OllamaEngine распознавание через vision-модель Ollama
type OllamaEngine struct {
	httpClient *http.Client
	baseURL    string
	model      string
	logger     *zap.Logger
}

// NewOllamaEngine создаёт новый экземпляр OllamaEngine
func NewOllamaEngine(cfg config.OllamaConfig, logger *zap.Logger) *OllamaEngine {
	return &OllamaEngine{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: strings.TrimRight(cfg.Host, "/"),
		model:   cfg.Model,
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error,omitempty"`
}

// Recognize отправляет изображение в /api/chat и возвращает текст ответа
func (c *OllamaEngine) Recognize(ctx context.Context, img *image.Gray, languages []string) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	reqJSON, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role:    "user",
			Content: buildPrompt(languages),
			Images:  []string{base64.StdEncoding.EncodeToString(buf.Bytes())},
		}},
		Stream: false,
		Options: map[string]any{
			"temperature": 0,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Ollama: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Ollama request completed",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("status_code", resp.StatusCode),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if chatResp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", chatResp.Error)
	}

	return cleanResponse(chatResp.Message.Content), nil
}

// CheckHealth проверяет доступность Ollama
func (c *OllamaEngine) CheckHealth(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/tags", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health check failed with status: %d", resp.StatusCode)
	}

	var tagsResp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tagsResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	base := strings.Split(c.model, ":")[0]
	for _, model := range tagsResp.Models {
		if strings.HasPrefix(model.Name, base) {
			return nil
		}
	}

	return fmt.Errorf("model %s not found, please run: ollama pull %s", c.model, c.model)
}

func buildPrompt(languages []string) string {
	names := make([]string, 0, len(languages))
	for _, code := range languages {
		if name, ok := languageNames[code]; ok {
			names = append(names, name)
			continue
		}
		names = append(names, code)
	}

	return fmt.Sprintf(`Transcribe all text visible in this image.
The text is written in: %s.
Keep the original line breaks and reading order.
Return ONLY the transcribed text, without comments or formatting.
If there is no text in the image, return an empty response.`, strings.Join(names, ", "))
}

// cleanResponse убирает markdown-обёртку, которую модели иногда добавляют
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```text")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
