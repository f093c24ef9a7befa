package db

import (
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
)

// RecordColumns is the fixed projection of a full record row (without point).
var RecordColumns = []string{
	"id", "first_name", "last_initial", "profession", "office",
	"city", "state", "zip_code", "bio", "skills", "active",
}

// CandidateColumns is the projection of CandidateRow.
var CandidateColumns = []string{
	"id", "zip_code", "first_name", "last_initial", "profession", "city", "state",
}

// filterColumns whitelists the columns behind each filter field.
var filterColumns = map[filter.Field][]string{
	filter.Profession: {"profession"},
	filter.Office:     {"office"},
	filter.City:       {"city"},
	filter.State:      {"state"},
	filter.ZipCode:    {"zip_code"},
	filter.Keyword:    {"bio", "first_name", "city", "skills"},
}

// sortColumns whitelists the columns behind each sort key.
var sortColumns = map[string][]string{
	"name":       {"LOWER(%sfirst_name)", "%slast_initial"},
	"location":   {"%sstate", "LOWER(%scity)"},
	"profession": {"LOWER(%sprofession)"},
}

// Qualify prefixes each column with alias ("r" -> "r.id").
func Qualify(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = qualify(alias, c)
	}
	return out
}

func qualify(alias, col string) string {
	if alias == "" {
		return col
	}
	return alias + "." + col
}

// ApplyFilters adds one predicate per condition. Comparisons are
// case-insensitive; LIKE operands are escaped so user text never acts as a wildcard.
func ApplyFilters(q *Query, expr filter.Expression, alias string) *Query {
	for _, c := range expr.Must() {
		cols, ok := filterColumns[c.Field()]
		if !ok {
			q.Where("1 = 0")
			continue
		}
		switch c.Op() {
		case filter.AnyOf:
			vals := lowerAll(c.Values())
			q.WhereIn("LOWER("+qualify(alias, cols[0])+")", vals)
		case filter.Prefix:
			var parts []string
			var args []any
			for _, v := range c.Values() {
				for _, col := range cols {
					parts = append(parts, qualify(alias, col)+` LIKE ? ESCAPE '\'`)
					args = append(args, EscapeLike(v)+"%")
				}
			}
			q.Where("("+strings.Join(parts, " OR ")+")", args...)
		case filter.ContainsAny:
			var parts []string
			var args []any
			for _, v := range c.Values() {
				pattern := "%" + EscapeLike(strings.ToLower(v)) + "%"
				for _, col := range cols {
					parts = append(parts, "LOWER("+qualify(alias, col)+`) LIKE ? ESCAPE '\'`)
					args = append(args, pattern)
				}
			}
			q.Where("("+strings.Join(parts, " OR ")+")", args...)
		default:
			q.Where("1 = 0")
		}
	}
	return q
}

// OrderTerms returns whitelisted ORDER BY terms for a sort request, always
// ending with the id tiebreak. Unknown keys (and "distance" outside a spatial
// query) sort by name.
func OrderTerms(s Sort, alias string) []string {
	tmpl, ok := sortColumns[s.By]
	if !ok {
		tmpl = sortColumns["name"]
	}
	dir := " ASC"
	if s.Desc {
		dir = " DESC"
	}
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	terms := make([]string, 0, len(tmpl)+1)
	for _, t := range tmpl {
		terms = append(terms, strings.ReplaceAll(t, "%s", prefix)+dir)
	}
	return append(terms, qualify(alias, "id")+" ASC")
}

// EscapeLike escapes LIKE wildcards with backslash.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func lowerAll(vals []string) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strings.ToLower(v)
	}
	return out
}
