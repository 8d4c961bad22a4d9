package utils

import (
	"net/http"
	"strconv"
)

// Pagination carries skip/limit parsed from query parameters.
type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

// ParsePagination reads ?page= and ?limit= with sane bounds.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// QueryInt reads an integer query parameter, falling back to def.
func QueryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}
