// Package postgres serves the reference dataset from a Postgres mirror for
// server deployments. The mirror is read-only: opening verifies that the
// dataset schema is present, then catalog queries run over the same tables
// the SQLite backend uses. Not part of the default registry open path.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"crskit/pkg/registry"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/crskit?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// datasetTables is the full table set a mirrored dataset must carry.
var datasetTables = []string{
	"metadata",
	"authority",
	"unit_of_measure",
	"extent",
	"ellipsoid",
	"prime_meridian",
	"geodetic_datum",
	"vertical_datum",
	"crs",
	"coordinate_operation",
	"grid",
	"alias_name",
	"proj_method_alias",
	"supersession",
}

// codeTables are the tables ListCodes accepts.
var codeTables = map[string]bool{
	"unit_of_measure":      true,
	"ellipsoid":            true,
	"prime_meridian":       true,
	"geodetic_datum":       true,
	"vertical_datum":       true,
	"crs":                  true,
	"coordinate_operation": true,
}

// Store is a read-only handle over a Postgres-mirrored dataset.
type Store struct {
	db *sql.DB
}

// Open connects to the mirror and verifies the dataset schema. An empty DSN
// falls back to defaultDSN.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres mirror: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres mirror: %w", err)
	}
	if err := verifySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func verifySchema(ctx context.Context, db *sql.DB) error {
	var layout string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = 'DATABASE.LAYOUT.VERSION.MAJOR'`).Scan(&layout)
	if err != nil {
		return fmt.Errorf("mirror has no recognizable dataset layout: %w", err)
	}
	for _, table := range datasetTables {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return fmt.Errorf("mirror missing dataset table %s: %w", table, err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for deployments that run the dataset
// queries directly.
func (s *Store) DB() *sql.DB { return s.db }

// Metadata returns a dataset metadata value by key.
func (s *Store) Metadata(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", registry.ErrNotFound{Category: "metadata", Code: key}
	}
	if err != nil {
		return "", fmt.Errorf("mirror metadata %s: %w", key, err)
	}
	return value, nil
}

// ListAuthorities returns the registered authority names in order.
func (s *Store) ListAuthorities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM authority ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("mirror authorities: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan authority: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate authorities: %w", err)
	}
	return names, nil
}

// ListCodes returns the codes an authority registered in one dataset table.
func (s *Store) ListCodes(ctx context.Context, table, authority string) ([]string, error) {
	if !codeTables[table] {
		return nil, fmt.Errorf("mirror holds no %s codes", table)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT code FROM "+table+" WHERE authority = $1 ORDER BY code", authority)
	if err != nil {
		return nil, fmt.Errorf("mirror codes %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate codes: %w", err)
	}
	return codes, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
