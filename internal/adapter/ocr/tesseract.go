package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
	"github.com/plastinin/doctext/pkg/bounded"
)

// TesseractEngine распознавание через libtesseract.
// Клиент gosseract не потокобезопасен, поэтому на каждый вызов создаётся свой.
type TesseractEngine struct{}

// NewTesseractEngine создаёт движок tesseract
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{}
}

// Recognize распознаёт текст; вызов ограничен дедлайном ctx
func (t *TesseractEngine) Recognize(ctx context.Context, img *image.Gray, languages []string) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	return bounded.Call(ctx, func() (string, error) {
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage(languages...); err != nil {
			return "", fmt.Errorf("failed to set languages: %w", err)
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			return "", fmt.Errorf("failed to set image: %w", err)
		}

		text, err := client.Text()
		if err != nil {
			return "", fmt.Errorf("tesseract failed: %w", err)
		}
		return text, nil
	})
}

// Version версия libtesseract, для логов при старте
func (t *TesseractEngine) Version() string {
	return gosseract.Version()
}
