package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/plastinin/doctext/internal/domain"
	"go.uber.org/zap"
)

// Engine распознаёт текст на изображении в оттенках серого
type Engine interface {
	Recognize(ctx context.Context, img *image.Gray, languages []string) (string, error)
}

// ImageExtractor декодирует изображение, переводит его в оттенки серого
// и передаёт движку OCR.
type ImageExtractor struct {
	engine    Engine
	languages []string
	logger    *zap.Logger
}

// NewImageExtractor создаёт экстрактор для заданных языков (например rus, eng)
func NewImageExtractor(engine Engine, languages []string, logger *zap.Logger) *ImageExtractor {
	return &ImageExtractor{
		engine:    engine,
		languages: languages,
		logger:    logger,
	}
}

// Extract распознаёт текст из файла изображения
func (e *ImageExtractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := Decode(data)
	if err != nil {
		return "", err
	}

	gray := ToGray(img)

	e.logger.Debug("Image prepared for OCR",
		zap.String("format", format),
		zap.Int("width", gray.Bounds().Dx()),
		zap.Int("height", gray.Bounds().Dy()),
		zap.Strings("languages", e.languages),
	)

	startTime := time.Now()
	text, err := e.engine.Recognize(ctx, gray, e.languages)
	if err != nil {
		return "", fmt.Errorf("failed to recognize text: %w", err)
	}

	e.logger.Debug("OCR completed",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}

// Decode декодирует PNG, JPEG или BMP. Любая ошибка оборачивается в ErrDecode.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty file", domain.ErrDecode)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, "", fmt.Errorf("%w: empty image", domain.ErrDecode)
	}

	return img, format, nil
}

// ToGray переводит изображение в один канал яркости
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
