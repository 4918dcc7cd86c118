package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/plastinin/doctext/internal/adapter/http/dto"
	"github.com/plastinin/doctext/internal/domain"
	"go.uber.org/zap"
)

// JobReader чтение журнала заданий
type JobReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	List(ctx context.Context, filter domain.JobFilter, pagination domain.Pagination) (*domain.JobListResult, error)
}

// JobHandler обработчик HTTP запросов к журналу
type JobHandler struct {
	jobs   JobReader
	logger *zap.Logger
}

// NewJobHandler создаёт новый JobHandler
func NewJobHandler(jobs JobReader, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobs:   jobs,
		logger: logger,
	}
}

// GetByID возвращает запись по ID
// GET /api/v1/jobs/{id}
func (h *JobHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_id", "Invalid job ID format")
		return
	}

	job, err := h.jobs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			respondError(w, h.logger, http.StatusNotFound, "not_found", "Job not found")
			return
		}
		h.logger.Error("Failed to get job", zap.String("job_id", idStr), zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "Failed to get job")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.JobFromDomain(job))
}

// List возвращает страницу журнала
// GET /api/v1/jobs?page=1&page_size=20&owner_id=42&kind=export&status=failed
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	pagination := domain.NewPagination(page, pageSize)

	filter := domain.JobFilter{}
	if ownerStr := query.Get("owner_id"); ownerStr != "" {
		ownerID, err := strconv.ParseInt(ownerStr, 10, 64)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "invalid_owner_id", "owner_id must be an integer")
			return
		}
		filter.OwnerID = &ownerID
	}
	if kindStr := query.Get("kind"); kindStr != "" {
		kind := domain.JobKind(kindStr)
		if !kind.IsValid() {
			respondError(w, h.logger, http.StatusBadRequest, "invalid_kind", "kind must be extraction or export")
			return
		}
		filter.Kind = &kind
	}
	if statusStr := query.Get("status"); statusStr != "" {
		status := domain.JobStatus(statusStr)
		if status.IsValid() {
			filter.Status = &status
		}
	}

	result, err := h.jobs.List(r.Context(), filter, pagination)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "Failed to list jobs")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.JobListFromDomain(result))
}
