package storage

import (
	"errors"
	"strings"
)

// ErrReadOnly is returned by sources that cannot be written through this service.
var ErrReadOnly = errors.New("catalog source is read-only")

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// Sort orders accepted by ListFiltered.
const (
	SortID             = ""
	SortYearDesc       = "year_desc"
	SortYearAsc        = "year_asc"
	SortRatingDesc     = "rating_desc"
	SortPopularityDesc = "popularity_desc"
)

// Filter selects one page of catalog rows.
type Filter struct {
	Limit  int
	Offset int
	// Language matches, case-insensitively, anywhere in the spoken or original language.
	Language string
	MinYear  int
	Sort     string
}

func (f Filter) normalized() Filter {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Language = strings.TrimSpace(f.Language)
	return f
}

// sqlWhere renders the WHERE clause and its arguments. ph renders the n-th (1-based)
// placeholder so the same builder serves "?" and "$n" dialects.
func (f Filter) sqlWhere(ph func(n int) string) (string, []any) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if f.Language != "" {
		args = append(args, f.Language)
		where = append(where, "LOWER(spoken_languages || ' ' || original_language) LIKE '%' || LOWER("+ph(len(args))+") || '%'")
	}
	if f.MinYear > 0 {
		args = append(args, f.MinYear)
		where = append(where, "release_year >= "+ph(len(args)))
	}

	if len(where) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(where, " AND "), args
}

func (f Filter) sqlOrder() string {
	switch f.Sort {
	case SortYearDesc:
		return "ORDER BY release_year DESC, id"
	case SortYearAsc:
		return "ORDER BY release_year ASC, id"
	case SortRatingDesc:
		return "ORDER BY vote_average DESC, id"
	case SortPopularityDesc:
		return "ORDER BY popularity DESC, id"
	default:
		return "ORDER BY id"
	}
}
