package pdf

import (
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/plastinin/doctext/internal/domain"
)

// NativeEngine разбирает PDF на чистом Go, без cgo
type NativeEngine struct{}

// NewNativeEngine создаёт движок на базе ledongthuc/pdf
func NewNativeEngine() *NativeEngine {
	return &NativeEngine{}
}

func (e *NativeEngine) Name() string {
	return "native"
}

// Open открывает документ; ошибки разбора оборачиваются в ErrDocumentOpen
func (e *NativeEngine) Open(path string) (doc Document, err error) {
	// Библиотека паникует на части повреждённых файлов
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", domain.ErrDocumentOpen, r)
		}
	}()

	f, reader, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentOpen, err)
	}
	return &nativeDocument{file: f, reader: reader}, nil
}

type nativeDocument struct {
	file   *os.File
	reader *lpdf.Reader
}

func (d *nativeDocument) NumPage() int {
	return d.reader.NumPage()
}

// PageText страницы в ledongthuc/pdf нумеруются с единицы
func (d *nativeDocument) PageText(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to read page: %v", r)
		}
	}()

	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (d *nativeDocument) Close() error {
	return d.file.Close()
}
