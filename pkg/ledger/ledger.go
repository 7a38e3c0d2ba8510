// Package ledger counts successful pulls per source. JSON keeps the log in a single
// file with read-modify-write under a mutex, SQLite increments rows atomically.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/umputun/perspectives/pkg/domain"
	"github.com/umputun/perspectives/pkg/store"
)

// JSON is a file-backed pull log
type JSON struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewJSON makes a ledger persisted at path
func NewJSON(path string) *JSON {
	return &JSON{path: path, now: time.Now}
}

// Increment records one pull for the source, creating its entry on first pull
func (l *JSON) Increment(_ context.Context, name, url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	log, err := l.read()
	if err != nil {
		return err
	}

	now := l.now().UTC()
	key := domain.PullKey(name, url)
	entry, ok := log.Sources[key]
	if !ok {
		entry = domain.PullEntry{Name: name, URL: url, FirstSeen: now}
	}
	entry.PullCount++
	entry.LastPull = now
	log.Sources[key] = entry
	log.TotalPulls++
	log.LastUpdated = now

	if err := store.WriteJSON(l.path, log); err != nil {
		return fmt.Errorf("write pull log: %w", err)
	}
	return nil
}

// Load returns the current pull log
func (l *JSON) Load(_ context.Context) (domain.PullLog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *JSON) read() (domain.PullLog, error) {
	log := domain.PullLog{Sources: map[string]domain.PullEntry{}}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return log, nil
	}
	if err != nil {
		return log, fmt.Errorf("read pull log: %w", err)
	}
	if err := json.Unmarshal(data, &log); err != nil {
		return log, fmt.Errorf("parse pull log %s: %w", l.path, err)
	}
	if log.Sources == nil {
		log.Sources = map[string]domain.PullEntry{}
	}
	return log, nil
}
