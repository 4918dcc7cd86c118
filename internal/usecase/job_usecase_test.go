package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/plastinin/doctext/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJobUseCase_GetByID(t *testing.T) {
	repo := &fakeJobs{jobs: make(map[uuid.UUID]domain.Job)}
	job := domain.NewJob(domain.JobKindExport, 3)
	require.NoError(t, repo.Create(context.Background(), job))

	uc := NewJobUseCase(repo, zap.NewNop())

	got, err := uc.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	_, err = uc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobUseCase_List(t *testing.T) {
	repo := &fakeJobs{jobs: make(map[uuid.UUID]domain.Job)}
	uc := NewJobUseCase(repo, zap.NewNop())

	result, err := uc.List(context.Background(), domain.JobFilter{}, domain.NewPagination(1, 10))

	require.NoError(t, err)
	assert.NotNil(t, result)
}
