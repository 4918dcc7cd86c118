package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobKind тип записи в журнале
type JobKind string

const (
	JobKindExtraction JobKind = "extraction"
	JobKindExport     JobKind = "export"
)

func (k JobKind) IsValid() bool {
	return k == JobKindExtraction || k == JobKindExport
}

// Job запись журнала об одном извлечении или выгрузке.
// Сам текст в журнал не попадает.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Kind        JobKind    `json:"kind"`
	Status      JobStatus  `json:"status"`
	FileName    string     `json:"file_name,omitempty"`
	Format      string     `json:"format,omitempty"`
	Outcome     Outcome    `json:"outcome,omitempty"`
	TextLength  int        `json:"text_length"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewJob создаёт запись в статусе pending
func NewJob(kind JobKind, ownerID int64) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Kind:      kind,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkProcessing переводит запись в статус "в обработке"
func (j *Job) MarkProcessing() error {
	if j.Status != JobStatusPending {
		return ErrInvalidJobStatus
	}
	j.Status = JobStatusProcessing
	j.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted фиксирует успешный итог
func (j *Job) MarkCompleted(outcome Outcome, textLength int) error {
	if j.Status != JobStatusProcessing {
		return ErrInvalidJobStatus
	}
	now := time.Now()
	j.Status = JobStatusCompleted
	j.Outcome = outcome
	j.TextLength = textLength
	j.UpdatedAt = now
	j.CompletedAt = &now
	return nil
}

// MarkFailed фиксирует неуспешный итог
func (j *Job) MarkFailed(outcome Outcome, errMsg string) error {
	if j.Status.IsFinal() {
		return ErrInvalidJobStatus
	}
	now := time.Now()
	j.Status = JobStatusFailed
	j.Outcome = outcome
	j.Error = errMsg
	j.UpdatedAt = now
	j.CompletedAt = &now
	return nil
}
