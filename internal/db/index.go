package db

import (
	"errors"
	"strings"
)

// IndexMethod is the access method of a SQL index.
type IndexMethod string

const (
	// IndexBTree is the default ordered index.
	IndexBTree IndexMethod = ""
	// IndexGiST is the PostGIS spatial index.
	IndexGiST IndexMethod = "GIST"
)

// IndexDefinition describes a secondary index created with CREATE INDEX IF NOT EXISTS.
type IndexDefinition struct {
	Name    string
	Table   string
	Method  IndexMethod
	Columns []string
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if !IsValidIdentifier(idx.Table) {
		return errors.New("index table is required")
	}
	if len(idx.Columns) == 0 {
		return errors.New("at least one column is required")
	}
	seen := make(map[string]bool)
	for _, c := range idx.Columns {
		if c == "" {
			return errors.New("column name is required")
		}
		if seen[c] {
			return errors.New("duplicate column: " + c)
		}
		seen[c] = true
	}
	return nil
}

// DDL renders the CREATE INDEX statement.
func (idx *IndexDefinition) DDL() string {
	var b strings.Builder
	b.WriteString("CREATE INDEX IF NOT EXISTS ")
	b.WriteString(idx.Name)
	b.WriteString(" ON ")
	b.WriteString(idx.Table)
	if idx.Method != IndexBTree {
		b.WriteString(" USING ")
		b.WriteString(string(idx.Method))
	}
	b.WriteString(" (")
	b.WriteString(strings.Join(idx.Columns, ", "))
	b.WriteString(")")
	return b.String()
}

// IndexBuilder is a fluent builder for index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// On sets the indexed table.
func (b *IndexBuilder) On(table string) *IndexBuilder {
	b.def.Table = table
	return b
}

// Using sets the access method.
func (b *IndexBuilder) Using(m IndexMethod) *IndexBuilder {
	b.def.Method = m
	return b
}

// Column adds indexed columns or expressions.
func (b *IndexBuilder) Column(cols ...string) *IndexBuilder {
	b.def.Columns = append(b.def.Columns, cols...)
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// IsValidIdentifier returns true if s matches [a-zA-Z_][a-zA-Z0-9_]*.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
