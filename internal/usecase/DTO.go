package usecase

import (
	"time"

	"github.com/plastinin/doctext/internal/domain"
)

// UploadInput событие загрузки файла
type UploadInput struct {
	OwnerID  int64
	ChatID   int64
	FileName string
	FileRef  string // Идентификатор файла у транспорта
	FileSize int64  // 0, если транспорт размер не сообщил
}

// SelectionInput событие выбора формата
type SelectionInput struct {
	OwnerID int64
	ChatID  int64
	Token   string
}

// Result итог обработки события: исход и пройденные состояния
type Result struct {
	Outcome domain.Outcome
	States  []domain.State
}

func newResult(start domain.State) *Result {
	return &Result{States: []domain.State{start}}
}

// State текущее (последнее) состояние
func (r *Result) State() domain.State {
	return r.States[len(r.States)-1]
}

func (r *Result) enter(s domain.State) {
	r.States = append(r.States, s)
}

func (r *Result) finish(outcome domain.Outcome, s domain.State) *Result {
	r.Outcome = outcome
	if r.State() != s {
		r.enter(s)
	}
	return r
}

// Policy настройки поведения диалога
type Policy struct {
	ExtractTimeout   time.Duration
	ExportTimeout    time.Duration
	ClearAfterExport bool
	MaxFileSize      int64
}
