// Package pagination carries the one list contract shared by every entity
// endpoint: a normalized page request, the paged response envelope, and a
// gorm-backed executor that keeps the total count and the page fetch on the
// same filter predicate.
package pagination

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-management/internal"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Request is the normalized paging input. PageSize is already clamped;
// SortBy is still the client's word and gets resolved against a Spec.
type Request struct {
	PageNumber    int
	PageSize      int
	SortBy        string
	SortDirection Direction
	SearchTerm    string
}

// FromQuery normalizes the raw query string. pageNumber and pageSize below 1
// are caller errors; pageSize above the cap is silently reduced to the cap,
// because oversized pages are a resource concern rather than a correctness
// one. An unrecognized sortDirection falls back to ascending.
func FromQuery(q url.Values) (Request, error) {
	req := Request{
		PageNumber:    1,
		PageSize:      DefaultPageSize,
		SortBy:        q.Get("sortBy"),
		SortDirection: Ascending,
		SearchTerm:    strings.TrimSpace(q.Get("searchTerm")),
	}

	if raw := q.Get("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, internal.NewValidationError("pageNumber must be an integer", internal.ErrCodeValidationFailed)
		}
		if n < 1 {
			return Request{}, internal.NewValidationError("pageNumber must be at least 1", internal.ErrCodeValidationFailed)
		}
		req.PageNumber = n
	}

	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, internal.NewValidationError("pageSize must be an integer", internal.ErrCodeValidationFailed)
		}
		if n < 1 {
			return Request{}, internal.NewValidationError("pageSize must be at least 1", internal.ErrCodeValidationFailed)
		}
		if n > MaxPageSize {
			n = MaxPageSize
		}
		req.PageSize = n
	}

	switch strings.ToLower(q.Get("sortDirection")) {
	case "descending", "desc":
		req.SortDirection = Descending
	default:
		req.SortDirection = Ascending
	}

	return req, nil
}

func (r Request) Offset() int {
	return (r.PageNumber - 1) * r.PageSize
}

// Response is the envelope every list endpoint returns. Data holds exactly
// the requested page; TotalRecords counts the whole filtered result.
type Response[T any] struct {
	Data            []T   `json:"data"`
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalRecords    int64 `json:"totalRecords"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

// NewResponse packages an already-fetched page. It does no slicing: the rows
// passed in must be the requested page.
func NewResponse[T any](req Request, total int64, data []T) Response[T] {
	if data == nil {
		data = []T{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}

	return Response[T]{
		Data:            data,
		PageNumber:      req.PageNumber,
		PageSize:        req.PageSize,
		TotalRecords:    total,
		TotalPages:      totalPages,
		HasPreviousPage: req.PageNumber > 1,
		HasNextPage:     req.PageNumber < totalPages,
	}
}

// Spec is the per-entity query shape: which fields a client may sort by
// (external name to column), which columns free-text search covers, and an
// optional projection for the page fetch.
type Spec struct {
	DefaultSort string
	Sortable    map[string]string
	Searchable  []string
	Select      string
}

// OrderClause resolves the client's sortBy against the allow-list; anything
// unrecognized falls back to the default sort rather than erroring, and the
// raw string never reaches the query.
func (s Spec) OrderClause(req Request) string {
	column, ok := s.Sortable[req.SortBy]
	if !ok {
		column = s.Sortable[s.DefaultSort]
	}

	dir := "ASC"
	if req.SortDirection == Descending {
		dir = "DESC"
	}
	return column + " " + dir
}

// Run executes one filtered query twice: a count over the unpaged result and
// a fetch of the requested page. Both share the same predicate, so the
// envelope's totals always agree with the filter.
func Run[T any](db *gorm.DB, req Request, spec Spec) ([]T, int64, error) {
	query := db
	if req.SearchTerm != "" && len(spec.Searchable) > 0 {
		pattern := "%" + strings.ToLower(req.SearchTerm) + "%"
		clauses := make([]string, len(spec.Searchable))
		args := make([]interface{}, len(spec.Searchable))
		for i, column := range spec.Searchable {
			clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ?", column)
			args[i] = pattern
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, internal.NewUnavailableError("count query failed", err)
	}

	page := query.Session(&gorm.Session{})
	if spec.Select != "" {
		page = page.Select(spec.Select)
	}

	var rows []T
	err := page.
		Order(spec.OrderClause(req)).
		Limit(req.PageSize).
		Offset(req.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, internal.NewUnavailableError("page query failed", err)
	}

	return rows, total, nil
}
