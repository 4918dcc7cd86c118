package domain

import (
	"path/filepath"
	"strings"
)

// FileKind маршрут обработки загруженного файла
type FileKind string

const (
	FileKindImage       FileKind = "image"
	FileKindPDF         FileKind = "pdf"
	FileKindUnsupported FileKind = "unsupported"
)

// Расширения изображений, которые принимает бот
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

const pdfExtension = ".pdf"

// ClassifyFileName определяет маршрут по расширению файла (без учёта регистра)
func ClassifyFileName(fileName string) FileKind {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
	switch {
	case imageExtensions[ext]:
		return FileKindImage
	case ext == pdfExtension:
		return FileKindPDF
	default:
		return FileKindUnsupported
	}
}

// UploadedFile загруженный пользователем файл, живёт в пределах одного запроса
type UploadedFile struct {
	Name string
	Path string
	Size int64
}

func (k FileKind) String() string {
	return string(k)
}
