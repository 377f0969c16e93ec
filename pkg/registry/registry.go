// Package registry serves geodetic reference definitions from a SQLite
// dataset. The default dataset ships embedded and is loaded into an
// in-memory database; an explicit path and read-only auxiliary overlays can
// replace or extend it. Later overlays shadow earlier ones and the base for
// matching keys.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Category selects the object family of a lookup.
type Category string

// Lookup categories. The dataset holds no bound or temporal CRS entries;
// asking for those is a definite failure, not an empty result.
const (
	CategoryAny           Category = "any"
	CategoryCRS           Category = "crs"
	CategoryGeodeticCRS   Category = "geodetic_crs"
	CategoryProjectedCRS  Category = "projected_crs"
	CategoryVerticalCRS   Category = "vertical_crs"
	CategoryCompoundCRS   Category = "compound_crs"
	CategoryBoundCRS      Category = "bound_crs"
	CategoryTemporalCRS   Category = "temporal_crs"
	CategoryDatum         Category = "geodetic_datum"
	CategoryVerticalDatum Category = "vertical_datum"
	CategoryEllipsoid     Category = "ellipsoid"
	CategoryPrimeMeridian Category = "prime_meridian"
	CategoryOperation     Category = "coordinate_operation"
	CategoryUnit          Category = "unit_of_measure"
)

// GridStore answers local grid availability. internal/gridstore backends
// satisfy it.
type GridStore interface {
	Available(ctx context.Context, name string) (bool, error)
}

// MetricsRecorder receives per-operation outcomes. A nil recorder disables
// recording.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Options configures Open.
type Options struct {
	// DatabasePath points at an on-disk dataset. Empty selects the
	// embedded default.
	DatabasePath string
	// AuxiliaryPaths are read-only overlay datasets, layered in order.
	AuxiliaryPaths []string
	// Grids, when set, overrides the dataset's stored availability flag.
	Grids GridStore
	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Metrics receives operation outcomes. Nil disables recording.
	Metrics MetricsRecorder
}

// Registry is a read-mostly handle over the dataset. Concurrent lookups are
// safe; SetDatabasePath must be serialized relative to use by the caller.
type Registry struct {
	mu      sync.RWMutex
	dbs     []*sql.DB
	grids   GridStore
	logger  *slog.Logger
	metrics MetricsRecorder
}

// Open opens the configured dataset plus overlays. A failure to open any
// layer fails the whole call; nothing is leaked.
func Open(opts Options) (*Registry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dbs, err := openLayers(opts.DatabasePath, opts.AuxiliaryPaths)
	if err != nil {
		return nil, err
	}
	logger.Debug("registry dataset opened",
		"path", displayPath(opts.DatabasePath), "overlays", len(opts.AuxiliaryPaths))
	return &Registry{
		dbs:     dbs,
		grids:   opts.Grids,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// SetDatabasePath replaces the dataset and overlays. On failure the handle
// keeps serving the previously opened dataset and only this call errors.
func (r *Registry) SetDatabasePath(path string, aux ...string) error {
	dbs, err := openLayers(path, aux)
	if err != nil {
		r.logger.Warn("registry dataset reconfiguration rejected",
			"path", displayPath(path), "error", err)
		return err
	}
	r.mu.Lock()
	old := r.dbs
	r.dbs = dbs
	r.mu.Unlock()
	closeAll(old)
	r.logger.Debug("registry dataset replaced",
		"path", displayPath(path), "overlays", len(aux))
	return nil
}

// Close releases all open dataset layers.
func (r *Registry) Close() error {
	r.mu.Lock()
	dbs := r.dbs
	r.dbs = nil
	r.mu.Unlock()
	var firstErr error
	for _, db := range dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// handles returns the current layer stack, base first.
func (r *Registry) handles() []*sql.DB {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*sql.DB(nil), r.dbs...)
}

func (r *Registry) observe(ctx context.Context, operation string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.Observe(ctx, operation, err == nil, time.Since(start))
	}
}

func openLayers(path string, aux []string) ([]*sql.DB, error) {
	dbs := make([]*sql.DB, 0, 1+len(aux))
	base, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	dbs = append(dbs, base)
	for _, p := range aux {
		db, err := openDataset(p)
		if err != nil {
			closeAll(dbs)
			return nil, fmt.Errorf("auxiliary dataset %s: %w", p, err)
		}
		dbs = append(dbs, db)
	}
	return dbs, nil
}

// openDataset opens one layer and verifies the layout. The empty path loads
// the embedded seed into a fresh in-memory database.
func openDataset(path string) (*sql.DB, error) {
	if path == "" {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			return nil, fmt.Errorf("open embedded dataset: %w", err)
		}
		// One connection, so every query sees the same memory database.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(datasetSQL); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed embedded dataset: %w", err)
		}
		return db, nil
	}
	// The driver would create a missing file; reject it up front so a bad
	// path leaves nothing behind.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	var layout string
	err = db.QueryRow(`SELECT value FROM metadata WHERE key = 'DATABASE.LAYOUT.VERSION.MAJOR'`).Scan(&layout)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("dataset %s has no recognizable layout: %w", path, err)
	}
	return db, nil
}

func closeAll(dbs []*sql.DB) {
	for _, db := range dbs {
		_ = db.Close()
	}
}

func displayPath(path string) string {
	if path == "" {
		return "(embedded)"
	}
	return path
}
