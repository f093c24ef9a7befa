package db

import (
	"strconv"
	"strings"
)

// Dialect covers the SQL differences between supported relational stores.
type Dialect interface {
	Name() string
	// Rebind rewrites ? placeholders into the driver's native form.
	Rebind(query string) string
	// Epoch renders a timestamp column as unix seconds.
	Epoch(col string) string
	// EpochParam renders a placeholder that accepts unix seconds.
	EpochParam() string
	// Schema returns the idempotent DDL for the base tables.
	Schema() []string
}

// Postgres is the PostgreSQL dialect.
type Postgres struct{}

// Name returns the dialect name.
func (Postgres) Name() string { return "postgres" }

// Rebind converts ? to $1..$n, skipping quoted literals.
func (Postgres) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Epoch renders a timestamptz column as bigint seconds.
func (Postgres) Epoch(col string) string {
	return "CAST(EXTRACT(EPOCH FROM " + col + ") AS BIGINT)"
}

// EpochParam converts bound unix seconds into timestamptz.
func (Postgres) EpochParam() string { return "to_timestamp(CAST(? AS BIGINT))" }

// Schema returns PostgreSQL DDL.
func (Postgres) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS directory_records (
			id           TEXT PRIMARY KEY,
			first_name   TEXT NOT NULL,
			last_initial TEXT NOT NULL DEFAULT '',
			profession   TEXT NOT NULL DEFAULT '',
			office       TEXT NOT NULL DEFAULT '',
			city         TEXT NOT NULL DEFAULT '',
			state        TEXT NOT NULL DEFAULT '',
			zip_code     TEXT NOT NULL DEFAULT '',
			bio          TEXT NOT NULL DEFAULT '',
			skills       TEXT NOT NULL DEFAULT '',
			active       BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS zip_coordinates (
			zip        TEXT PRIMARY KEY,
			found      BOOLEAN NOT NULL,
			latitude   DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude  DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
}

// SQLite is the SQLite dialect (modernc.org/sqlite).
type SQLite struct{}

// Name returns the dialect name.
func (SQLite) Name() string { return "sqlite" }

// Rebind is a no-op: SQLite accepts ? natively.
func (SQLite) Rebind(query string) string { return query }

// Epoch returns the column as is: timestamps are stored as INTEGER seconds.
func (SQLite) Epoch(col string) string { return col }

// EpochParam is a plain placeholder.
func (SQLite) EpochParam() string { return "?" }

// Schema returns SQLite DDL.
func (SQLite) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS directory_records (
			id           TEXT PRIMARY KEY,
			first_name   TEXT NOT NULL,
			last_initial TEXT NOT NULL DEFAULT '',
			profession   TEXT NOT NULL DEFAULT '',
			office       TEXT NOT NULL DEFAULT '',
			city         TEXT NOT NULL DEFAULT '',
			state        TEXT NOT NULL DEFAULT '',
			zip_code     TEXT NOT NULL DEFAULT '',
			bio          TEXT NOT NULL DEFAULT '',
			skills       TEXT NOT NULL DEFAULT '',
			active       INTEGER NOT NULL DEFAULT 1,
			updated_at   INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS zip_coordinates (
			zip        TEXT PRIMARY KEY,
			found      INTEGER NOT NULL,
			latitude   REAL NOT NULL DEFAULT 0,
			longitude  REAL NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL DEFAULT 0
		)`,
	}
}

// RecordIndexes are the secondary indexes shared by both dialects.
func RecordIndexes() []*IndexDefinition {
	return []*IndexDefinition{
		NewIndex("ix_directory_records_state").On(TableRecords).Column("state").MustBuild(),
		NewIndex("ix_directory_records_zip").On(TableRecords).Column("zip_code").MustBuild(),
		NewIndex("ix_directory_records_profession").On(TableRecords).Column("profession").MustBuild(),
		NewIndex("ix_zip_coordinates_lat_lon").On(TableZips).Column("latitude", "longitude").MustBuild(),
	}
}
