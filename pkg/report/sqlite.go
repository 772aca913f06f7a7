package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"catalog-hq/marcval/pkg/telemetry/logging"
)

// SQLiteConfig contains configuration for the SQLite report store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration

	// Logger receives store lifecycle events. Default: discard.
	Logger *logging.Logger
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "marcval.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite with WAL journaling.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *logging.Logger
}

// NewSQLiteStore opens (or creates) the report database and initializes
// the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("component", "report.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("report store initialized", "path", config.Path)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	busyTimeout := s.config.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}
	return nil
}

// Save persists one report.
func (s *SQLiteStore) Save(ctx context.Context, r *Report) error {
	const query = `
		INSERT INTO reports (
			id, request_id, control_number, leader, material_type,
			valid, violation_count, violations, duration_us, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.RequestID, r.ControlNumber, r.Leader, r.MaterialType,
		r.Valid, r.ViolationCount, string(r.Violations),
		r.Duration.Microseconds(), r.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.ID, err)
	}
	return nil
}

// Get returns a report by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Report, error) {
	const query = `
		SELECT id, request_id, control_number, leader, material_type,
		       valid, violation_count, violations, duration_us, recorded_at
		FROM reports WHERE id = ?
	`
	r, err := scanReport(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	return r, nil
}

// List returns reports newest first.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]*Report, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, request_id, control_number, leader, material_type,
		       valid, violation_count, violations, duration_us, recorded_at
		FROM reports
	`
	args := []any{}
	if opts.OnlyInvalid {
		query += " WHERE valid = 0"
	}
	query += " ORDER BY recorded_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Count returns the number of stored reports.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}

// DeleteOlderThan removes reports recorded before the cutoff.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE recorded_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old reports: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("pruned reports", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanReport.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*Report, error) {
	var (
		r          Report
		violations string
		durationUS int64
	)
	err := row.Scan(
		&r.ID, &r.RequestID, &r.ControlNumber, &r.Leader, &r.MaterialType,
		&r.Valid, &r.ViolationCount, &violations, &durationUS, &r.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	if violations != "" {
		r.Violations = json.RawMessage(violations)
	}
	r.Duration = time.Duration(durationUS) * time.Microsecond
	return &r, nil
}
