package filter

import (
	"fmt"
	"strings"
)

// MaxConditions is the maximum number of conditions in one expression.
const MaxConditions = 16

// MaxValuesPerCondition bounds the OR list of a single condition.
const MaxValuesPerCondition = 64

// Field is a filterable directory attribute.
type Field string

// Filterable fields. Keyword is virtual and spans bio, first name, city and skills.
const (
	Profession Field = "profession"
	Office     Field = "office"
	City       Field = "city"
	State      Field = "state"
	ZipCode    Field = "zip_code"
	Keyword    Field = "keyword"
)

// IsValid checks the field against the whitelist.
func (f Field) IsValid() bool {
	switch f {
	case Profession, Office, City, State, ZipCode, Keyword:
		return true
	}
	return false
}

// IsLocation reports whether the field narrows by place.
func (f Field) IsLocation() bool {
	return f == City || f == State || f == ZipCode
}

// Op is the comparison applied by a condition.
type Op string

const (
	// AnyOf matches when the field equals any value (case-insensitive).
	AnyOf Op = "any_of"
	// Prefix matches when the field starts with any value.
	Prefix Op = "prefix"
	// ContainsAny matches when the field contains any value as a substring (case-insensitive).
	ContainsAny Op = "contains_any"
)

// Condition is a single filter clause.
type Condition struct {
	field  Field
	op     Op
	values []string
}

// NewAnyOf creates a case-insensitive OR-equality condition.
func NewAnyOf(field Field, values ...string) (Condition, error) {
	return newCondition(field, AnyOf, values)
}

// NewPrefix creates an OR-prefix condition.
func NewPrefix(field Field, values ...string) (Condition, error) {
	return newCondition(field, Prefix, values)
}

// NewContainsAny creates a case-insensitive OR-substring condition.
func NewContainsAny(field Field, values ...string) (Condition, error) {
	return newCondition(field, ContainsAny, values)
}

func newCondition(field Field, op Op, values []string) (Condition, error) {
	if !field.IsValid() {
		return Condition{}, fmt.Errorf("unknown filter field %q", field)
	}
	clean := dedupe(values)
	if len(clean) == 0 {
		return Condition{}, fmt.Errorf("value is required for field %q", field)
	}
	if len(clean) > MaxValuesPerCondition {
		return Condition{}, fmt.Errorf("too many values for field %q (max %d)", field, MaxValuesPerCondition)
	}
	return Condition{field: field, op: op, values: clean}, nil
}

// Field returns the filtered attribute.
func (c Condition) Field() Field { return c.field }

// Op returns the comparison.
func (c Condition) Op() Op { return c.op }

// Values returns the operands (trimmed, de-duplicated, never empty).
func (c Condition) Values() []string { return c.values }

// Expression is a conjunction of conditions.
type Expression struct {
	must []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must ...Condition) (Expression, error) {
	if len(must) > MaxConditions {
		return Expression{}, fmt.Errorf("too many conditions (max %d)", MaxConditions)
	}
	return Expression{must: must}, nil
}

// Must returns the conditions.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Has reports whether any condition targets field.
func (e Expression) Has(field Field) bool {
	for _, c := range e.must {
		if c.field == field {
			return true
		}
	}
	return false
}

// And returns a new expression with extra conditions appended.
func (e Expression) And(more ...Condition) (Expression, error) {
	all := make([]Condition, 0, len(e.must)+len(more))
	all = append(all, e.must...)
	all = append(all, more...)
	return NewExpression(all...)
}

// WithoutLocation drops city, state and zip conditions.
func (e Expression) WithoutLocation() Expression {
	out := make([]Condition, 0, len(e.must))
	for _, c := range e.must {
		if !c.field.IsLocation() {
			out = append(out, c)
		}
	}
	return Expression{must: out}
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}
