package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/umputun/perspectives/pkg/domain"
	"github.com/umputun/perspectives/pkg/store"
)

// Migrator moves records between category partitions
type Migrator struct {
	store Store
}

// NewMigrator makes a migrator over the store
func NewMigrator(s Store) *Migrator {
	return &Migrator{store: s}
}

// Move writes the record into the target partition first and only then removes it from the source one.
// A crash in between leaves two copies with the same link, collapsed by the next dedup pass.
func (m *Migrator) Move(ctx context.Context, rec domain.Record, from, to domain.Category) error {
	if from == to {
		return nil
	}
	rec.Category = to
	if err := m.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("write %s to %s: %w", rec.ID, to, err)
	}
	if err := m.store.Delete(ctx, from, rec.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("remove %s from %s: %w", rec.ID, from, err)
	}
	return nil
}
