package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/plastinin/doctext/internal/domain"
	"go.uber.org/zap"
)

// JobUseCase чтение журнала заданий
type JobUseCase struct {
	jobRepo JobRepository
	logger  *zap.Logger
}

// NewJobUseCase создаёт новый экземпляр JobUseCase
func NewJobUseCase(jobRepo JobRepository, logger *zap.Logger) *JobUseCase {
	return &JobUseCase{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// GetByID возвращает запись журнала по ID
func (uc *JobUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// List возвращает страницу журнала
func (uc *JobUseCase) List(ctx context.Context, filter domain.JobFilter, pagination domain.Pagination) (*domain.JobListResult, error) {
	result, err := uc.jobRepo.List(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	uc.logger.Debug("Jobs listed",
		zap.Int("total", result.Total),
		zap.Int("page", pagination.Page),
	)

	return result, nil
}
