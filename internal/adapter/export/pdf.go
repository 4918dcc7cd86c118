package export

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/plastinin/doctext/internal/config"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const (
	unicodeFontFamily = "DocText"
	coreFontFamily    = "Helvetica"
	lineHeightRatio   = 0.5
)

// ErrUnsupportedCharacters текст нельзя вывести встроенным шрифтом без потерь
var ErrUnsupportedCharacters = errors.New("text contains characters the core PDF font cannot encode")

// PDFRenderer раскладывает текст одним абзацем, переносы строк и страниц
// делает fpdf.
type PDFRenderer struct {
	font     []byte
	pageSize string
	fontSize float64
	compress bool
}

// NewPDFRenderer создаёт рендерер и один раз читает TTF-шрифт. Если шрифта нет,
// используется встроенный Helvetica (только cp1252).
func NewPDFRenderer(cfg config.ExportConfig, logger *zap.Logger) *PDFRenderer {
	r := &PDFRenderer{
		pageSize: cfg.PageSize,
		fontSize: cfg.FontSize,
		compress: cfg.PDFCompress,
	}

	if cfg.FontPath != "" {
		font, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			logger.Warn("PDF font not found, falling back to core font; non-Latin text cannot be exported to PDF",
				zap.String("font_path", cfg.FontPath),
				zap.Error(err),
			)
		} else {
			r.font = font
		}
	}
	if r.fontSize <= 0 {
		r.fontSize = 11
	}
	if r.pageSize == "" {
		r.pageSize = "Letter"
	}

	return r
}

func (r *PDFRenderer) Render(text, path string) error {
	doc := fpdf.New("P", "mm", r.pageSize, "")
	doc.SetCompression(r.compress)
	doc.SetTitle("doctext", true)

	if r.font != nil {
		doc.AddUTF8FontFromBytes(unicodeFontFamily, "", r.font)
		doc.SetFont(unicodeFontFamily, "", r.fontSize)
	} else {
		if !encodableCP1252(text) {
			return ErrUnsupportedCharacters
		}
		doc.SetFont(coreFontFamily, "", r.fontSize)
		text = doc.UnicodeTranslatorFromDescriptor("")(text)
	}

	doc.AddPage()
	doc.MultiCell(0, r.fontSize*lineHeightRatio, text, "", "L", false)

	if err := doc.Error(); err != nil {
		return fmt.Errorf("failed to layout PDF: %w", err)
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// encodableCP1252 проверяет, что встроенный шрифт выведет каждый символ
func encodableCP1252(text string) bool {
	for _, r := range text {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}
