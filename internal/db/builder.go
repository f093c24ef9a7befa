package db

import (
	"strconv"
	"strings"
)

// Table names.
const (
	TableRecords = "directory_records"
	TableZips    = "zip_coordinates"
)

// clause is a SQL fragment with its bound values in placeholder order.
type clause struct {
	sql  string
	args []any
}

type cte struct {
	name  string
	parts []*Query
}

// Query is a fluent builder for parameterized SELECT statements. Values are
// always bound through ? placeholders; identifiers must come from code, never
// from user input.
type Query struct {
	with       []cte
	distinctOn []string
	columns    []clause
	from       string
	sub        *Query
	joins      []string
	where      []clause
	orderBy    []string
	limit      int
	offset     int
}

// Select starts a query with plain column expressions.
func Select(cols ...string) *Query {
	q := &Query{limit: -1, offset: -1}
	for _, c := range cols {
		q.columns = append(q.columns, clause{sql: c})
	}
	return q
}

// Column adds a column expression with bound values.
func (q *Query) Column(expr string, args ...any) *Query {
	q.columns = append(q.columns, clause{sql: expr, args: args})
	return q
}

// DistinctOn adds a PostgreSQL DISTINCT ON list.
func (q *Query) DistinctOn(cols ...string) *Query {
	q.distinctOn = append(q.distinctOn, cols...)
	return q
}

// With adds a CTE. Multiple parts are combined with UNION ALL.
func (q *Query) With(name string, parts ...*Query) *Query {
	q.with = append(q.with, cte{name: name, parts: parts})
	return q
}

// From sets the source table (with optional alias).
func (q *Query) From(table string) *Query {
	q.from = table
	return q
}

// Join adds a join clause verbatim.
func (q *Query) Join(join string) *Query {
	q.joins = append(q.joins, join)
	return q
}

// Where adds a conjunctive predicate.
func (q *Query) Where(sql string, args ...any) *Query {
	q.where = append(q.where, clause{sql: sql, args: args})
	return q
}

// WhereIn adds "expr IN (?, ?, ...)". An empty list matches nothing.
func (q *Query) WhereIn(expr string, values []string) *Query {
	if len(values) == 0 {
		return q.Where("1 = 0")
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return q.Where(expr+" IN ("+placeholders(len(values))+")", args...)
}

// OrderBy appends ordering terms.
func (q *Query) OrderBy(terms ...string) *Query {
	q.orderBy = append(q.orderBy, terms...)
	return q
}

// Limit sets LIMIT. Negative means none.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Offset sets OFFSET. Negative means none.
func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

// Build renders the statement with ? placeholders and returns the bound values
// in placeholder order.
func (q *Query) Build() (string, []any) {
	var b strings.Builder
	var args []any
	q.write(&b, &args)
	return b.String(), args
}

// BuildFor renders the statement for a dialect.
func (q *Query) BuildFor(d Dialect) (string, []any) {
	s, args := q.Build()
	return d.Rebind(s), args
}

// Count wraps the query as SELECT COUNT(*) over its rows, ignoring order and paging.
func (q *Query) Count() *Query {
	inner := *q
	inner.orderBy = nil
	inner.limit, inner.offset = -1, -1
	with := inner.with
	inner.with = nil

	outer := Select("COUNT(*)")
	outer.with = with
	outer.sub = &inner
	return outer
}

func (q *Query) write(b *strings.Builder, args *[]any) {
	if len(q.with) > 0 {
		b.WriteString("WITH ")
		for i, c := range q.with {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.name)
			b.WriteString(" AS (")
			for j, p := range c.parts {
				if j > 0 {
					b.WriteString(" UNION ALL ")
				}
				p.write(b, args)
			}
			b.WriteString(")")
		}
		b.WriteString(" ")
	}

	b.WriteString("SELECT ")
	if len(q.distinctOn) > 0 {
		b.WriteString("DISTINCT ON (")
		b.WriteString(strings.Join(q.distinctOn, ", "))
		b.WriteString(") ")
	}
	for i, c := range q.columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.sql)
		*args = append(*args, c.args...)
	}

	if q.sub != nil {
		b.WriteString(" FROM (")
		q.sub.write(b, args)
		b.WriteString(") AS counted")
	} else if q.from != "" {
		b.WriteString(" FROM ")
		b.WriteString(q.from)
	}
	for _, j := range q.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}

	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		for i, w := range q.where {
			if i > 0 {
				b.WriteString(" AND ")
			}
			b.WriteString(w.sql)
			*args = append(*args, w.args...)
		}
	}

	if len(q.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.orderBy, ", "))
	}
	if q.limit >= 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.limit))
	}
	if q.offset > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(q.offset))
	}
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
