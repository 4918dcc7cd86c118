package domain

import "errors"

// Ошибки извлечения и выгрузки
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrDecode              = errors.New("failed to decode image")
	ErrDocumentOpen        = errors.New("failed to open document")
	ErrEmptyExtraction     = errors.New("no text found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrStaleSession        = errors.New("stale or missing session")
	ErrUnknownFormatToken  = errors.New("unknown format token")
	ErrExportFailure       = errors.New("export failed")
)

// Ошибки журнала заданий
var (
	ErrJobNotFound      = errors.New("job not found")
	ErrInvalidJobStatus = errors.New("invalid job status")
)
