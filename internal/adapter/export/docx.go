package export

import (
	"fmt"

	"github.com/gomutex/godocx"
)

// DOCXRenderer добавляет весь текст одним абзацем в новый документ
type DOCXRenderer struct{}

func (DOCXRenderer) Render(text, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	doc.AddParagraph(text)

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write DOCX: %w", err)
	}
	return nil
}
