package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"mediagraph/internal/config"
	"mediagraph/internal/domain"
	"mediagraph/internal/log"
	"mediagraph/internal/ports"
)

// Store implements ports.ObjectStore using SQLite
type Store struct {
	db     *sql.DB
	dir    string
	dbPath string
	log    *log.Logger

	ids   *domain.IDAllocator
	paths *pathCache

	errMu   sync.Mutex
	lastErr error
}

// Ensure Store implements ObjectStore
var _ ports.ObjectStore = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for setup and commit messages
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// NewStore creates a new, unopened store
func NewStore(opts ...Option) *Store {
	s := &Store{
		ids:   domain.NewIDAllocator(domain.ReservedIDs),
		paths: newPathCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates dir (the platform data directory when empty) and opens the
// database handle inside it.
func (s *Store) Open(dir string) error {
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	s.dir = dir
	s.dbPath = filepath.Join(dir, config.DatabaseName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return s.fail(fmt.Errorf("failed to create data directory: %w", err))
	}

	db, err := sql.Open(driverName, dsn(s.dbPath))
	if err != nil {
		return s.fail(fmt.Errorf("failed to open database: %w", err))
	}
	// One connection: a single writer, and PRAGMA foreign_keys stays in effect
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return s.fail(fmt.Errorf("failed to open database: %w", err))
	}
	s.db = db

	s.log.Debug("opened %s", s.dbPath)
	return nil
}

// Initialize creates every table, seeds the category roots and loads the
// id allocator and path cache. It is safe to call on an existing database.
func (s *Store) Initialize(ctx context.Context) error {
	if s.db == nil {
		return s.fail(errors.New("store is not open"))
	}

	if _, err := s.db.ExecContext(ctx, pragmas+schema); err != nil {
		return s.fail(fmt.Errorf("failed to setup database: %w", err))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail(fmt.Errorf("failed to seed database: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		return s.fail(fmt.Errorf("failed to update metadata: %w", err))
	}
	for _, r := range domain.Roots {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO object_node (object_id, type, title) VALUES (?, ?, ?)
		`, r.ID, uint32(r.Type), r.Title); err != nil {
			return s.fail(fmt.Errorf("failed to seed root %s: %w", r.Title, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return s.fail(fmt.Errorf("failed to seed database: %w", err))
	}

	if err := s.loadAllocator(ctx); err != nil {
		return s.fail(err)
	}
	if err := s.loadPaths(ctx); err != nil {
		return s.fail(err)
	}

	s.log.Info("database ready: %d sources, next id %d", s.paths.len(), s.ids.Peek())
	return nil
}

func (s *Store) loadAllocator(ctx context.Context) error {
	var maxID sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(object_id) FROM object_node`).Scan(&maxID); err != nil {
		return fmt.Errorf("failed to read highest object id: %w", err)
	}
	if maxID.Valid {
		s.ids.Observe(maxID.Int64)
	}

	var next string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'next_object_id'`).Scan(&next)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read id allocator: %w", err)
	}
	if n, perr := strconv.ParseInt(next, 10, 64); perr == nil && n > 0 {
		s.ids.Observe(n - 1)
	}
	return nil
}

func (s *Store) loadPaths(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT path, object_id FROM sources`)
	if err != nil {
		return fmt.Errorf("failed to load source index: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]int64)
	for rows.Next() {
		var path string
		var id int64
		if err := rows.Scan(&path, &id); err != nil {
			return err
		}
		entries[path] = id
	}
	if err := rows.Err(); err != nil {
		return err
	}
	s.paths.reset(entries)
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DatabasePath returns the path of the open database file
func (s *Store) DatabasePath() string {
	return s.dbPath
}

// LastError returns the most recent setup failure
func (s *Store) LastError() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastErr
}

func (s *Store) fail(err error) error {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
	s.log.Error("%v", err)
	return err
}

// BeginTx starts a new transaction
func (s *Store) BeginTx(ctx context.Context) (ports.StoreTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	t := &storeTx{store: s, tx: tx}
	t.graph = domain.NewGraph(t)
	return t, nil
}

// nullString converts an empty string to NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullID converts an absent grouping reference to NULL
func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

// nullTime stores a timestamp as unix seconds, NULL when zero
func nullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func fromNullTime(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0)
}
