package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/db/sqldb"
)

// Compile-time checks.
var (
	_ db.Store        = (*Store)(nil)
	_ db.SpatialStore = (*Store)(nil)
	_ db.GeoWriter    = (*Store)(nil)
)

const (
	geoColumn       = "geo_point"
	spatialIndex    = "ix_directory_records_geo_point"
	latExpr         = "ST_Y(%sgeo_point::geometry)"
	lonExpr         = "ST_X(%sgeo_point::geometry)"
	defaultMaxConns = 10
)

// Config holds connection parameters for a PostgreSQL store.
type Config struct {
	DSN          string
	MaxOpenConns int
}

// Store is the PostgreSQL-backed directory store with optional PostGIS support.
type Store struct {
	*sqldb.Store
}

// Open creates the pgx-backed pool. It does not touch the server; call
// WaitForReady and Init before use.
func Open(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	maxConns := cfg.MaxOpenConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	conn.SetMaxOpenConns(maxConns)
	conn.SetMaxIdleConns(maxConns)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	s := &Store{Store: sqldb.New(conn, db.Postgres{})}
	return s, nil
}

// Init applies the base schema and enables point projection when the
// geography column already exists.
func (s *Store) Init(ctx context.Context) error {
	if err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	has, err := s.hasGeoColumn(ctx)
	if err != nil {
		return err
	}
	if has {
		s.SetPointColumns(latExpr, lonExpr)
	}
	return nil
}

func (s *Store) hasGeoColumn(ctx context.Context) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (
		SELECT 1 FROM information_schema.columns
		WHERE table_name = $1 AND column_name = $2)`, db.TableRecords, geoColumn)
}

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := s.DB().QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, &db.Error{Op: db.OpProbe, Err: err}
	}
	return ok, nil
}
