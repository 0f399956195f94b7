package utils

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageParams holds normalized pagination input plus the raw sort request.
// SortBy carries the client's field name as sent; endpoints resolve it
// against their own whitelist via SortSpec.
type PageParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Skip returns the number of documents to skip for the current page.
func (p PageParams) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// NormalizePageParams parses page/limit query values and clamps them to
// sane values: a page below 1 becomes 1, a limit outside [1,100] becomes 10.
// Unparseable values fall back to the defaults rather than erroring.
func NormalizePageParams(pageStr, limitStr string) PageParams {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return PageParams{Page: page, Limit: limit}
}

// SortSpec resolves the requested sort against the field names an endpoint
// allows. allowed maps query-facing names to stored field names; a sortBy
// that is absent or not in the map falls back to defaultField. Direction is
// descending unless sortOrder is "asc".
func (p PageParams) SortSpec(defaultField string, allowed map[string]string) (string, int) {
	field := defaultField
	if mapped, ok := allowed[p.SortBy]; ok {
		field = mapped
	}
	order := -1
	if p.SortOrder == "asc" {
		order = 1
	}
	return field, order
}

// Pagination is the envelope metadata returned alongside paginated lists.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
}

// NewPagination computes the envelope for a given page, limit and total count.
func NewPagination(params PageParams, total int64) Pagination {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit != 0 {
		totalPages++
	}
	return Pagination{
		CurrentPage: params.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNextPage: params.Page < totalPages,
		HasPrevPage: params.Page > 1,
		Limit:       params.Limit,
	}
}
