package domain

import "time"

// ExtractionResult последний распознанный текст пользователя
type ExtractionResult struct {
	OwnerID   int64     `json:"owner_id"`
	Text      string    `json:"text"`
	Source    FileKind  `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportRequest запрос на выгрузку, не хранится
type ExportRequest struct {
	OwnerID int64
	Format  ExportFormat
}
