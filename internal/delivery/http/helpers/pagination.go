package helpers

import (
	"net/http"
	"strconv"

	"crewmatch/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads ?page and ?page_size. Missing, malformed or non-positive
// values fall back to the defaults; page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     positiveInt(q.Get("page"), DefaultPage),
		PageSize: min(positiveInt(q.Get("page_size"), DefaultPageSize), MaxPageSize),
	}
}

func positiveInt(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// PaginationMeta describes the page returned in a list response.
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta reports total pages for total rows; zero when pageSize is zero.
func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	meta := PaginationMeta{Page: p.Page, PageSize: p.PageSize, Total: total}
	if p.PageSize > 0 {
		meta.TotalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return meta
}
