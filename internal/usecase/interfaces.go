package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/plastinin/doctext/internal/domain"
)

// TextExtractor извлекает текст из файла на диске (изображение или PDF)
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// DocumentRenderer выгружает текст в файл заданного формата
type DocumentRenderer interface {
	Render(ctx context.Context, text string, format domain.ExportFormat, path string) error
}

// SessionStore хранит последний распознанный текст пользователя
type SessionStore interface {
	Put(ctx context.Context, ownerID int64, result *domain.ExtractionResult) error
	Get(ctx context.Context, ownerID int64) (*domain.ExtractionResult, error)
	Remove(ctx context.Context, ownerID int64) error
}

// FileStorage временное файловое хранилище одного запроса
type FileStorage interface {
	Save(ctx context.Context, fileName string, reader io.Reader) (fileKey string, err error)
	Reserve(ctx context.Context, fileName string) (fileKey string, err error)
	Open(ctx context.Context, fileKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileKey string) error
}

// FileSource скачивает файл, присланный пользователем, у транспорта
type FileSource interface {
	Fetch(ctx context.Context, fileRef string) (io.ReadCloser, error)
}

// Messenger отправляет ответы пользователю
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendChoice(ctx context.Context, chatID int64, text string, choices []domain.Choice) error
	SendDocument(ctx context.Context, chatID int64, fileName string, reader io.Reader) error
}

// JobRepository журнал обработанных запросов
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
	List(ctx context.Context, filter domain.JobFilter, pagination domain.Pagination) (*domain.JobListResult, error)
}
