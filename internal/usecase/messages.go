package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/plastinin/doctext/internal/domain"
)

// Тексты ответов пользователю
const (
	msgGreeting = "Привет! Я бот для извлечения текста из изображений и PDF. " +
		"Отправь мне файл, и я распознаю текст!"
	msgUnsupported      = "Формат не поддерживается. Отправьте изображение (PNG, JPG, BMP) или PDF."
	msgTooLarge         = "Файл слишком большой. Отправьте файл поменьше."
	msgDecodeError      = "Не удалось загрузить изображение."
	msgDocumentError    = "Не удалось открыть PDF-документ."
	msgEmpty            = "Текст не найден."
	msgExtractionFailed = "Не удалось распознать текст. Попробуйте отправить файл ещё раз."
	msgExtractTimeout   = "Распознавание заняло слишком много времени. Попробуйте файл поменьше."
	msgStale            = "Данные устарели. Отправьте файл снова."
	msgUnknownToken     = "Неизвестный формат. Выберите TXT, PDF или DOCX."
	msgExportFailed     = "Ошибка при сохранении файла."
	msgExportTimeout    = "Сохранение заняло слишком много времени. Попробуйте ещё раз."
	msgSaveAs           = "Сохранить как:"
)

// Длина превью распознанного текста в символах
const previewLength = 500

func previewMessage(kind domain.FileKind, text string) string {
	header := "Текст распознан:"
	if kind == domain.FileKindPDF {
		header = "Текст из PDF:"
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s", header, preview(text, previewLength), msgSaveAs)
}

// preview обрезает текст по границе символа, а не байта
func preview(text string, limit int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}
