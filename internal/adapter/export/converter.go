package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/plastinin/doctext/internal/domain"
	"github.com/plastinin/doctext/pkg/bounded"
	"go.uber.org/zap"
)

// Renderer записывает текст в файл одного формата
type Renderer interface {
	Render(text, path string) error
}

// Converter выбирает рендерер по формату
type Converter struct {
	renderers map[domain.ExportFormat]Renderer
	logger    *zap.Logger
}

// NewConverter создаёт конвертер с рендерерами TXT, PDF и DOCX
func NewConverter(pdf *PDFRenderer, logger *zap.Logger) *Converter {
	return &Converter{
		renderers: map[domain.ExportFormat]Renderer{
			domain.FormatTXT:  TXTRenderer{},
			domain.FormatPDF:  pdf,
			domain.FormatDOCX: DOCXRenderer{},
		},
		logger: logger,
	}
}

// Render записывает документ в path; вызов ограничен дедлайном ctx
func (c *Converter) Render(ctx context.Context, text string, format domain.ExportFormat, path string) error {
	renderer, ok := c.renderers[format]
	if !ok {
		return fmt.Errorf("no renderer for format %q", format)
	}

	startTime := time.Now()
	if err := bounded.Run(ctx, func() error { return renderer.Render(text, path) }); err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}

	c.logger.Debug("Document rendered",
		zap.String("format", format.String()),
		zap.Int("text_length", len(text)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

// Convert рендерит документ в память через временный файл
func (c *Converter) Convert(ctx context.Context, text string, format domain.ExportFormat) ([]byte, error) {
	dir, err := os.MkdirTemp("", "doctext-convert-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, format.FileName())
	if err := c.Render(ctx, text, format, path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered file: %w", err)
	}
	return data, nil
}
