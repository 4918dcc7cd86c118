package usecase

import (
	"context"

	"github.com/plastinin/doctext/internal/domain"
	"go.uber.org/zap"
)

// journal пишет записи в JobRepository; ошибки журнала только логируются.
// С nil-репозиторием все методы ничего не делают.
type journal struct {
	repo   JobRepository
	logger *zap.Logger
}

func newJournal(repo JobRepository, logger *zap.Logger) *journal {
	return &journal{repo: repo, logger: logger}
}

func (j *journal) start(ctx context.Context, job *domain.Job) *domain.Job {
	if j.repo == nil {
		return job
	}
	if err := job.MarkProcessing(); err != nil {
		j.logger.Warn("Failed to mark job as processing", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
	if err := j.repo.Create(ctx, job); err != nil {
		j.logger.Warn("Failed to create job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
	return job
}

func (j *journal) complete(ctx context.Context, job *domain.Job, outcome domain.Outcome, textLength int) {
	if j.repo == nil {
		return
	}
	if err := job.MarkCompleted(outcome, textLength); err != nil {
		j.logger.Warn("Failed to mark job as completed", zap.String("job_id", job.ID.String()), zap.Error(err))
		return
	}
	j.update(ctx, job)
}

func (j *journal) fail(ctx context.Context, job *domain.Job, outcome domain.Outcome, err error) {
	if j.repo == nil {
		return
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if markErr := job.MarkFailed(outcome, msg); markErr != nil {
		j.logger.Warn("Failed to mark job as failed", zap.String("job_id", job.ID.String()), zap.Error(markErr))
		return
	}
	j.update(ctx, job)
}

func (j *journal) update(ctx context.Context, job *domain.Job) {
	// Запрос мог уже истечь, но запись в журнал всё равно нужна
	ctx = context.WithoutCancel(ctx)
	if err := j.repo.Update(ctx, job); err != nil {
		j.logger.Warn("Failed to update job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}
