package domain

import "strings"

// ExportFormat формат, в который выгружается распознанный текст
type ExportFormat string

const (
	FormatTXT  ExportFormat = "txt"
	FormatPDF  ExportFormat = "pdf"
	FormatDOCX ExportFormat = "docx"
)

// FormatTokenPrefix общий префикс callback-токенов выбора формата
const FormatTokenPrefix = "save_"

// Явное соответствие токенов форматам
var formatByToken = map[string]ExportFormat{
	FormatTokenPrefix + "txt":  FormatTXT,
	FormatTokenPrefix + "pdf":  FormatPDF,
	FormatTokenPrefix + "docx": FormatDOCX,
}

// Choice кнопка выбора формата
type Choice struct {
	Label string
	Token string
}

// FormatChoices возвращает варианты выбора в фиксированном порядке
func FormatChoices() []Choice {
	return []Choice{
		{Label: "TXT", Token: FormatTXT.Token()},
		{Label: "PDF", Token: FormatPDF.Token()},
		{Label: "DOCX", Token: FormatDOCX.Token()},
	}
}

// ParseFormatToken превращает callback-токен в формат
func ParseFormatToken(token string) (ExportFormat, error) {
	f, ok := formatByToken[token]
	if !ok {
		return "", ErrUnknownFormatToken
	}
	return f, nil
}

// IsFormatToken проверяет префикс токена
func IsFormatToken(token string) bool {
	return strings.HasPrefix(token, FormatTokenPrefix)
}

func (f ExportFormat) Token() string {
	return FormatTokenPrefix + string(f)
}

// FileName имя файла, под которым документ уходит пользователю
func (f ExportFormat) FileName() string {
	return "output." + string(f)
}

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatTXT, FormatPDF, FormatDOCX:
		return true
	}
	return false
}

func (f ExportFormat) String() string {
	return string(f)
}
