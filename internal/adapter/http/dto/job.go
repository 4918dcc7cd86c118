package dto

import (
	"time"

	"github.com/plastinin/doctext/internal/domain"
)

// JobResponse запись журнала
type JobResponse struct {
	ID          string     `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	FileName    string     `json:"file_name,omitempty"`
	Format      string     `json:"format,omitempty"`
	Outcome     string     `json:"outcome,omitempty"`
	TextLength  int        `json:"text_length"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobFromDomain конвертирует доменную модель в DTO
func JobFromDomain(job *domain.Job) *JobResponse {
	return &JobResponse{
		ID:          job.ID.String(),
		OwnerID:     job.OwnerID,
		Kind:        string(job.Kind),
		Status:      job.Status.String(),
		FileName:    job.FileName,
		Format:      job.Format,
		Outcome:     job.Outcome.String(),
		TextLength:  job.TextLength,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		CompletedAt: job.CompletedAt,
	}
}

// JobListResponse страница журнала
type JobListResponse struct {
	Jobs       []*JobResponse `json:"jobs"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// JobListFromDomain конвертирует результат списка в DTO
func JobListFromDomain(result *domain.JobListResult) *JobListResponse {
	jobs := make([]*JobResponse, len(result.Jobs))
	for i, job := range result.Jobs {
		jobs[i] = JobFromDomain(job)
	}

	return &JobListResponse{
		Jobs:       jobs,
		Total:      result.Total,
		Page:       result.Pagination.Page,
		PageSize:   result.Pagination.PageSize,
		TotalPages: result.Pagination.TotalPages(result.Total),
	}
}
