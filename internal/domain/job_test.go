package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycle(t *testing.T) {
	job := NewJob(JobKindExtraction, 42)
	assert.Equal(t, JobStatusPending, job.Status)

	require.NoError(t, job.MarkProcessing())
	require.NoError(t, job.MarkCompleted(OutcomeExtracted, 12))

	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Equal(t, 12, job.TextLength)
	assert.NotNil(t, job.CompletedAt)

	assert.ErrorIs(t, job.MarkFailed(OutcomeTimeout, "late"), ErrInvalidJobStatus)
	assert.ErrorIs(t, job.MarkProcessing(), ErrInvalidJobStatus)
}

func TestJobFailFromPending(t *testing.T) {
	job := NewJob(JobKindExport, 7)
	require.NoError(t, job.MarkFailed(OutcomeStale, "no session"))
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, OutcomeStale, job.Outcome)
	assert.ErrorIs(t, job.MarkCompleted(OutcomeExported, 1), ErrInvalidJobStatus)
}

func TestPagination(t *testing.T) {
	p := NewPagination(0, 1000)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = NewPagination(3, 10)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 3, p.TotalPages(21))
	assert.Equal(t, 0, p.TotalPages(0))
}
