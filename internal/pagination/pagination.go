package pagination

import (
	"math"
	"net/url"
	"strconv"
)

// Request is a client request for one page of results.
type Request struct {
	Page  int
	Limit int
}

// Normalize clamps the page to at least 1 and the limit to (0, maxLimit],
// substituting defaultLimit for a missing or non-positive limit. The page is
// also capped so Offset cannot overflow.
func (r *Request) Normalize(defaultLimit, maxLimit int) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	if r.Limit > 0 {
		if maxPage := math.MaxInt64 / int64(r.Limit); int64(r.Page) > maxPage {
			r.Page = int(maxPage)
		}
	}
}

// Offset calculates the number of records to skip.
func (r Request) Offset() int64 {
	return int64(r.Page-1) * int64(r.Limit)
}

// RequestFromQuery parses the page and limit query parameters. Unparseable
// values fall back to defaults rather than failing the request.
func RequestFromQuery(values url.Values, defaultLimit, maxLimit int) Request {
	page, _ := strconv.Atoi(values.Get("page"))
	limit, _ := strconv.Atoi(values.Get("limit"))

	req := Request{Page: page, Limit: limit}
	req.Normalize(defaultLimit, maxLimit)
	return req
}

// Meta is the pagination envelope returned alongside a page of results.
type Meta struct {
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	TotalResults   int64 `json:"totalResults"`
	ResultsPerPage int   `json:"resultsPerPage"`
	HasNextPage    bool  `json:"hasNextPage"`
	HasPrevPage    bool  `json:"hasPrevPage"`
}

// NewMeta computes page metadata for a request against total matching records.
func NewMeta(req Request, total int64) Meta {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int(total / int64(req.Limit))
		if total%int64(req.Limit) != 0 {
			totalPages++
		}
	}

	return Meta{
		CurrentPage:    req.Page,
		TotalPages:     totalPages,
		TotalResults:   total,
		ResultsPerPage: req.Limit,
		HasNextPage:    req.Page < totalPages,
		HasPrevPage:    req.Page > 1,
	}
}
