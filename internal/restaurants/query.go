package restaurants

import (
	"fmt"
	"net/url"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restohub/backend/internal/pagination"
)

// Fields a search may filter on.
var searchFields = map[string]bool{
	"name":    true,
	"cuisine": true,
	"address": true,
}

var sortFields = map[string]bool{
	"name":        true,
	"cuisine":     true,
	"address":     true,
	"searchScore": true,
	"createdAt":   true,
}

const (
	defaultSortBy = "name"
	sortAsc       = "asc"
	sortDesc      = "desc"
)

// Query is a resolved find: filter, ordering and page window.
type Query struct {
	Filter bson.M
	Sort   bson.D
	Skip   int64
	Limit  int64
}

// SearchParams are the validated inputs of a search request.
type SearchParams struct {
	Field     string
	Query     string
	Page      pagination.Request
	SortBy    string
	SortOrder string
}

// ParseSearch validates search query parameters.
func ParseSearch(values url.Values, cfg pagination.Config) (SearchParams, error) {
	p := SearchParams{
		Field:     values.Get("field"),
		Query:     values.Get("query"),
		Page:      pagination.RequestFromQuery(values, cfg.SearchPageSize, cfg.MaxPageSize),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
	}

	if p.Field != "" && !searchFields[p.Field] {
		return p, fmt.Errorf("%w: %q (allowed: name, cuisine, address)", ErrInvalidField, p.Field)
	}

	if p.SortBy == "" {
		p.SortBy = defaultSortBy
	}
	if !sortFields[p.SortBy] {
		return p, fmt.Errorf("%w: sortBy %q", ErrInvalidSort, p.SortBy)
	}

	if p.SortOrder == "" {
		p.SortOrder = sortAsc
	}
	if p.SortOrder != sortAsc && p.SortOrder != sortDesc {
		return p, fmt.Errorf("%w: sortOrder %q (must be asc or desc)", ErrInvalidSort, p.SortOrder)
	}

	return p, nil
}

// Filter matches documents whose field contains the query, case-insensitively.
// Without both a field and a query it matches everything.
func (p SearchParams) Filter() bson.M {
	if p.Field == "" || p.Query == "" {
		return bson.M{}
	}
	return bson.M{
		p.Field: primitive.Regex{Pattern: regexp.QuoteMeta(p.Query), Options: "i"},
	}
}

// Sort orders by the requested field, optionally behind searchScore descending.
// _id is always the final key so paging is stable.
func (p SearchParams) Sort(scorePrimary bool) bson.D {
	dir := 1
	if p.SortOrder == sortDesc {
		dir = -1
	}

	sort := bson.D{}
	if scorePrimary && p.SortBy != "searchScore" {
		sort = append(sort, bson.E{Key: "searchScore", Value: -1})
	}
	sort = append(sort, bson.E{Key: p.SortBy, Value: dir})
	return append(sort, bson.E{Key: "_id", Value: 1})
}

// ToQuery builds the store query for the search.
func (p SearchParams) ToQuery(scorePrimary bool) Query {
	return Query{
		Filter: p.Filter(),
		Sort:   p.Sort(scorePrimary),
		Skip:   p.Page.Offset(),
		Limit:  int64(p.Page.Limit),
	}
}

// ListQuery builds the unfiltered list query.
func ListQuery(page pagination.Request, sortByScore bool) Query {
	sort := bson.D{}
	if sortByScore {
		sort = append(sort, bson.E{Key: "searchScore", Value: -1})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	return Query{
		Filter: bson.M{},
		Sort:   sort,
		Skip:   page.Offset(),
		Limit:  int64(page.Limit),
	}
}
