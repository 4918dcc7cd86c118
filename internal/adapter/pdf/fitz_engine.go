package pdf

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/plastinin/doctext/internal/domain"
)

// FitzEngine открывает PDF через MuPDF
type FitzEngine struct{}

// NewFitzEngine создаёт движок на базе go-fitz
func NewFitzEngine() *FitzEngine {
	return &FitzEngine{}
}

func (e *FitzEngine) Name() string {
	return "fitz"
}

// Open открывает документ; ошибки разбора оборачиваются в ErrDocumentOpen
func (e *FitzEngine) Open(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentOpen, err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) NumPage() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) PageText(page int) (string, error) {
	return d.doc.Text(page)
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
