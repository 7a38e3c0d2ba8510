package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/umputun/perspectives/pkg/domain"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
	category   TEXT NOT NULL,
	id         TEXT NOT NULL,
	payload    TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (category, id)
);
CREATE INDEX IF NOT EXISTS idx_records_expires ON records(expires_at);
`

// errCritical marks errors that must not be retried
var errCritical = errors.New("critical")

// SQLite stores records as JSON payloads in a single table keyed by (category, id)
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens the database and applies connection settings
func OpenSQLite(dsn string, maxOpenConns int) (*sqlx.DB, error) {
	if dsn == "" {
		dsn = "file:perspectives.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return db, nil
}

// NewSQLite makes the store and creates its schema if missing
func NewSQLite(ctx context.Context, db *sqlx.DB) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, recordsSchema); err != nil {
		return nil, fmt.Errorf("init records schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save upserts the record into its category partition
func (s *SQLite) Save(ctx context.Context, rec domain.Record) error {
	if err := checkKey(rec.Category, rec.ID); err != nil {
		return err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}

	query, args, err := sq.Insert("records").
		Columns("category", "id", "payload", "expires_at", "updated_at").
		Values(string(rec.Category), rec.ID, string(payload), rec.ExpiresDate.UTC(), time.Now().UTC()).
		Suffix("ON CONFLICT(category, id) DO UPDATE SET payload = excluded.payload, " +
			"expires_at = excluded.expires_at, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	return s.exec(ctx, func() error {
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return s.classify(fmt.Errorf("save record %s: %w", rec.ID, err))
		}
		return nil
	})
}

// Get loads a single record
func (s *SQLite) Get(ctx context.Context, cat domain.Category, id string) (domain.Record, error) {
	if err := checkKey(cat, id); err != nil {
		return domain.Record{}, err
	}
	query, args, err := sq.Select("payload").From("records").
		Where(sq.Eq{"category": string(cat), "id": id}).ToSql()
	if err != nil {
		return domain.Record{}, fmt.Errorf("build select: %w", err)
	}

	var payload string
	if err := s.db.GetContext(ctx, &payload, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, fmt.Errorf("get %s/%s: %w", cat, id, ErrNotFound)
		}
		return domain.Record{}, fmt.Errorf("get %s/%s: %w", cat, id, err)
	}
	var rec domain.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return domain.Record{}, fmt.Errorf("unmarshal %s/%s: %w", cat, id, err)
	}
	rec.Category = cat
	return rec, nil
}

// List returns all readable records of the partition ordered by id, malformed payloads are skipped
func (s *SQLite) List(ctx context.Context, cat domain.Category) ([]domain.Record, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("invalid category %q", cat)
	}
	query, args, err := sq.Select("id", "payload").From("records").
		Where(sq.Eq{"category": string(cat)}).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []struct {
		ID      string `db:"id"`
		Payload string `db:"payload"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", cat, err)
	}

	res := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		var rec domain.Record
		if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
			lgr.Printf("[WARN] skip record %s/%s: %v", cat, row.ID, err)
			continue
		}
		rec.ID, rec.Category = row.ID, cat
		res = append(res, rec)
	}
	return res, nil
}

// IDs returns ids of all records in the partition
func (s *SQLite) IDs(ctx context.Context, cat domain.Category) ([]string, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("invalid category %q", cat)
	}
	query, args, err := sq.Select("id").From("records").
		Where(sq.Eq{"category": string(cat)}).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	ids := []string{}
	if err := s.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list ids %s: %w", cat, err)
	}
	return ids, nil
}

// Delete removes the record from the partition
func (s *SQLite) Delete(ctx context.Context, cat domain.Category, id string) error {
	if err := checkKey(cat, id); err != nil {
		return err
	}
	query, args, err := sq.Delete("records").Where(sq.Eq{"category": string(cat), "id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	var affected int64
	err = s.exec(ctx, func() error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return s.classify(fmt.Errorf("delete %s/%s: %w", cat, id, err))
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: rows affected: %w", errCritical, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("delete %s/%s: %w", cat, id, ErrNotFound)
	}
	return nil
}

// exec retries fn on database lock errors
func (s *SQLite) exec(ctx context.Context, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, fn, errCritical)
}

// classify marks everything except lock contention as critical
func (s *SQLite) classify(err error) error {
	if isLockError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", errCritical, err)
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
