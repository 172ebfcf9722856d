package pagination

import (
	"database/sql"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Params is the normalized page/limit/search triple taken from the query string.
type Params struct {
	Page   int
	Limit  int
	Search string
}

// ParseParams coerces raw query values into valid paging params. Anything
// non-numeric or non-positive falls back to the defaults instead of failing.
func ParseParams(page, limit, search string) Params {
	return Params{
		Page:   parsePositive(page, defaultPage),
		Limit:  parsePositive(limit, defaultLimit),
		Search: strings.TrimSpace(search),
	}
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Filter declares which columns a search term is matched against.
// Text columns get a case-insensitive substring match; numeric columns get an
// exact match, but only when the term itself parses as a number.
type Filter struct {
	TextColumns    []string
	NumericColumns []string
}

// Clause renders the filter as a SQL disjunction. An empty search yields an
// empty clause (no WHERE). A term matching nothing is not an error here; the
// executor simply returns an empty page.
func (f Filter) Clause(search string) (string, []any) {
	if search == "" {
		return "", nil
	}

	parts := []string{}
	args := []any{}

	like := "%" + escapeLike(strings.ToLower(search)) + "%"
	for _, col := range f.TextColumns {
		parts = append(parts, "LOWER("+col+") LIKE ?")
		args = append(args, like)
	}

	if num, err := strconv.ParseFloat(search, 64); err == nil {
		for _, col := range f.NumericColumns {
			parts = append(parts, col+" = ?")
			args = append(args, num)
		}
	}

	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Page is the response envelope for one page of results.
type Page[T any] struct {
	Data        []T  `json:"data"`
	TotalDocs   int  `json:"totalDocs"`
	TotalPages  int  `json:"totalPages"`
	Page        int  `json:"page"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Query names the table, the selected columns, and the search filter for one resource.
type Query struct {
	Table   string
	Columns []string
	Filter  Filter
}

// Execute counts the filtered rows, then fetches the requested slice newest-first.
// Asking for a page past the end returns an empty Data with correct flags.
func Execute[T any](db *sql.DB, q Query, p Params, scan func(*sql.Rows) (T, error)) (Page[T], error) {
	where, args := q.Filter.Clause(p.Search)

	countSQL := "SELECT COUNT(*) FROM " + q.Table
	if where != "" {
		countSQL += " WHERE " + where
	}

	var total int
	if err := db.QueryRow(countSQL, args...).Scan(&total); err != nil {
		return Page[T]{}, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}

	page := Page[T]{
		Data:        []T{},
		TotalDocs:   total,
		TotalPages:  totalPages,
		Page:        p.Page,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}

	if total == 0 || (p.Page-1)*p.Limit >= total {
		return page, nil
	}

	selectSQL := "SELECT " + strings.Join(q.Columns, ", ") + " FROM " + q.Table
	if where != "" {
		selectSQL += " WHERE " + where
	}
	selectSQL += " ORDER BY created_at DESC LIMIT ? OFFSET ?"

	selectArgs := append(append([]any{}, args...), p.Limit, (p.Page-1)*p.Limit)

	rows, err := db.Query(selectSQL, selectArgs...)
	if err != nil {
		return Page[T]{}, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return Page[T]{}, err
		}
		page.Data = append(page.Data, item)
	}
	if err := rows.Err(); err != nil {
		return Page[T]{}, err
	}

	return page, nil
}
