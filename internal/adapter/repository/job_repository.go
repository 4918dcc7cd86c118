package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plastinin/doctext/internal/domain"
)

const jobColumns = `id, owner_id, kind, status, file_name, format, outcome, text_length, error, created_at, updated_at, completed_at`

// JobRepository журнал заданий в PostgreSQL
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository создаёт новый экземпляр JobRepository
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// Create добавляет запись в журнал
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (id, owner_id, kind, status, file_name, format, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.OwnerID,
		job.Kind,
		job.Status,
		job.FileName,
		job.Format,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	return nil
}

// GetByID возвращает запись по ID
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// Update сохраняет статус и итог записи
func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET status = $2, outcome = $3, text_length = $4, error = $5, updated_at = $6, completed_at = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Status,
		job.Outcome,
		job.TextLength,
		nullableString(job.Error),
		job.UpdatedAt,
		job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

// List возвращает страницу журнала, новые записи первыми
func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter, pagination domain.Pagination) (*domain.JobListResult, error) {
	where, args := buildJobFilter(filter)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM jobs"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM jobs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)+1, len(args)+2)
	args = append(args, pagination.Limit(), pagination.Offset())

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return &domain.JobListResult{
		Jobs:       jobs,
		Total:      total,
		Pagination: pagination,
	}, nil
}

// buildJobFilter собирает WHERE с позиционными параметрами
func buildJobFilter(filter domain.JobFilter) (string, []any) {
	var (
		where string
		args  []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf("%s = $%d", column, len(args))
	}

	if filter.OwnerID != nil {
		add("owner_id", *filter.OwnerID)
	}
	if filter.Kind != nil {
		add("kind", *filter.Kind)
	}
	if filter.Status != nil {
		add("status", *filter.Status)
	}

	return where, args
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	job := &domain.Job{}
	var errorMsg *string

	err := row.Scan(
		&job.ID,
		&job.OwnerID,
		&job.Kind,
		&job.Status,
		&job.FileName,
		&job.Format,
		&job.Outcome,
		&job.TextLength,
		&errorMsg,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if errorMsg != nil {
		job.Error = *errorMsg
	}

	return job, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
