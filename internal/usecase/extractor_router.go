package usecase

import (
	"github.com/plastinin/doctext/internal/domain"
)

// ExtractorRouter выбирает экстрактор по расширению файла
type ExtractorRouter struct {
	image TextExtractor
	pdf   TextExtractor
}

// NewExtractorRouter создаёт роутер экстракторов
func NewExtractorRouter(image, pdf TextExtractor) *ExtractorRouter {
	return &ExtractorRouter{image: image, pdf: pdf}
}

// Route возвращает экстрактор для файла или ErrUnsupportedFileType
func (r *ExtractorRouter) Route(fileName string) (TextExtractor, domain.FileKind, error) {
	kind := domain.ClassifyFileName(fileName)
	switch kind {
	case domain.FileKindImage:
		return r.image, kind, nil
	case domain.FileKindPDF:
		return r.pdf, kind, nil
	default:
		return nil, domain.FileKindUnsupported, domain.ErrUnsupportedFileType
	}
}
