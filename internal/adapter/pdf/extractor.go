package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/plastinin/doctext/pkg/bounded"
	"go.uber.org/zap"
)

// Document открытый PDF-документ
type Document interface {
	NumPage() int
	PageText(page int) (string, error)
	Close() error
}

// Engine открывает PDF-файлы
type Engine interface {
	Name() string
	Open(path string) (Document, error)
}

// Extractor склеивает текстовый слой всех страниц по порядку.
// OCR для отсканированных страниц не выполняется.
type Extractor struct {
	engine Engine
	logger *zap.Logger
}

// NewExtractor создаёт экстрактор поверх движка
func NewExtractor(engine Engine, logger *zap.Logger) *Extractor {
	return &Extractor{engine: engine, logger: logger}
}

// Extract возвращает текст документа; вызов ограничен дедлайном ctx
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	startTime := time.Now()

	text, err := bounded.Call(ctx, func() (string, error) {
		doc, err := e.engine.Open(path)
		if err != nil {
			return "", err
		}
		defer doc.Close()

		return ConcatPages(doc)
	})
	if err != nil {
		return "", err
	}

	e.logger.Debug("PDF text extracted",
		zap.String("engine", e.engine.Name()),
		zap.Int("text_length", len(text)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return text, nil
}

// ConcatPages соединяет текст страниц без разделителей
func ConcatPages(doc Document) (string, error) {
	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.PageText(i)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i+1, err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
