package ledger

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/perspectives/pkg/domain"
)

const pullsSchema = `
CREATE TABLE IF NOT EXISTS source_pulls (
	key        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	url        TEXT NOT NULL,
	pull_count INTEGER NOT NULL DEFAULT 0,
	first_seen DATETIME NOT NULL,
	last_pull  DATETIME NOT NULL
);
`

// SQLite keeps the pull log in a table, increments are single upsert statements
type SQLite struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLite makes the ledger and creates its table if missing
func NewSQLite(ctx context.Context, db *sqlx.DB) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, pullsSchema); err != nil {
		return nil, fmt.Errorf("init pulls schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Increment records one pull for the source
func (l *SQLite) Increment(ctx context.Context, name, url string) error {
	now := l.now().UTC()
	query, args, err := sq.Insert("source_pulls").
		Columns("key", "name", "url", "pull_count", "first_seen", "last_pull").
		Values(domain.PullKey(name, url), name, url, 1, now, now).
		Suffix("ON CONFLICT(key) DO UPDATE SET pull_count = pull_count + 1, last_pull = excluded.last_pull").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("increment %s: %w", name, err)
	}
	return nil
}

// Load returns the pull log assembled from the table
func (l *SQLite) Load(ctx context.Context) (domain.PullLog, error) {
	query, args, err := sq.Select("key", "name", "url", "pull_count", "first_seen", "last_pull").
		From("source_pulls").OrderBy("key").ToSql()
	if err != nil {
		return domain.PullLog{}, fmt.Errorf("build select: %w", err)
	}

	var rows []struct {
		Key       string    `db:"key"`
		Name      string    `db:"name"`
		URL       string    `db:"url"`
		PullCount int       `db:"pull_count"`
		FirstSeen time.Time `db:"first_seen"`
		LastPull  time.Time `db:"last_pull"`
	}
	if err := l.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return domain.PullLog{}, fmt.Errorf("load pulls: %w", err)
	}

	log := domain.PullLog{Sources: make(map[string]domain.PullEntry, len(rows))}
	for _, r := range rows {
		log.Sources[r.Key] = domain.PullEntry{Name: r.Name, URL: r.URL, PullCount: r.PullCount, FirstSeen: r.FirstSeen, LastPull: r.LastPull}
		log.TotalPulls += r.PullCount
		if r.LastPull.After(log.LastUpdated) {
			log.LastUpdated = r.LastPull
		}
	}
	return log, nil
}
