package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination параметры пагинации
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPagination создаёт параметры пагинации с валидацией
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) Limit() int {
	return p.PageSize
}

// TotalPages число страниц для total записей
func (p Pagination) TotalPages(total int) int {
	if p.PageSize <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// JobFilter фильтры журнала
type JobFilter struct {
	OwnerID *int64     `json:"owner_id,omitempty"`
	Kind    *JobKind   `json:"kind,omitempty"`
	Status  *JobStatus `json:"status,omitempty"`
}

// JobListResult страница журнала
type JobListResult struct {
	Jobs       []*Job     `json:"jobs"`
	Total      int        `json:"total"`
	Pagination Pagination `json:"pagination"`
}
