package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/plastinin/doctext/internal/adapter/http/dto"
	"github.com/plastinin/doctext/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeJobReader struct {
	jobs       map[uuid.UUID]*domain.Job
	err        error
	lastFilter domain.JobFilter
	lastPage   domain.Pagination
}

func (f *fakeJobReader) GetByID(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeJobReader) List(_ context.Context, filter domain.JobFilter, p domain.Pagination) (*domain.JobListResult, error) {
	f.lastFilter = filter
	f.lastPage = p
	if f.err != nil {
		return nil, f.err
	}
	jobs := make([]*domain.Job, 0, len(f.jobs))
	for _, job := range f.jobs {
		jobs = append(jobs, job)
	}
	return &domain.JobListResult{Jobs: jobs, Total: 45, Pagination: p}, nil
}

func newJobRouter(reader JobReader) http.Handler {
	h := NewJobHandler(reader, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/jobs", h.List)
	r.Get("/jobs/{id}", h.GetByID)
	return r
}

func TestJobHandler_GetByID(t *testing.T) {
	job := domain.NewJob(domain.JobKindExtraction, 42)
	job.FileName = "scan.png"
	reader := &fakeJobReader{jobs: map[uuid.UUID]*domain.Job{job.ID: job}}

	rec := httptest.NewRecorder()
	newJobRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.JobResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, job.ID.String(), resp.ID)
	assert.Equal(t, "extraction", resp.Kind)
	assert.Equal(t, "scan.png", resp.FileName)
}

func TestJobHandler_GetByIDErrors(t *testing.T) {
	reader := &fakeJobReader{jobs: map[uuid.UUID]*domain.Job{}}

	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{name: "bad id", path: "/jobs/not-a-uuid", status: http.StatusBadRequest},
		{name: "not found", path: "/jobs/" + uuid.NewString(), status: http.StatusNotFound},
		{name: "repository failure", path: "/jobs/" + uuid.NewString(), err: errors.New("db down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader.err = tt.err
			rec := httptest.NewRecorder()
			newJobRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestJobHandler_ListFilters(t *testing.T) {
	reader := &fakeJobReader{jobs: map[uuid.UUID]*domain.Job{}}

	rec := httptest.NewRecorder()
	newJobRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/jobs?page=2&page_size=20&owner_id=42&kind=export&status=failed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, reader.lastFilter.OwnerID)
	assert.Equal(t, int64(42), *reader.lastFilter.OwnerID)
	assert.Equal(t, domain.JobKindExport, *reader.lastFilter.Kind)
	assert.Equal(t, domain.JobStatusFailed, *reader.lastFilter.Status)
	assert.Equal(t, 2, reader.lastPage.Page)

	var resp dto.JobListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 45, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
}

func TestJobHandler_ListBadParams(t *testing.T) {
	reader := &fakeJobReader{jobs: map[uuid.UUID]*domain.Job{}}

	for _, path := range []string{"/jobs?owner_id=abc", "/jobs?kind=upload"} {
		rec := httptest.NewRecorder()
		newJobRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
