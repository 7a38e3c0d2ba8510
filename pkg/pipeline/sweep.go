package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/umputun/perspectives/pkg/domain"
)

// Sweeper removes expired records
type Sweeper struct {
	store Store
	now   func() time.Time
}

// NewSweeper makes a sweeper, now defaults to time.Now
func NewSweeper(s Store, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{store: s, now: now}
}

// Sweep deletes records of the category with now > expiresDate. A record expiring exactly now is kept.
func (s *Sweeper) Sweep(ctx context.Context, cat domain.Category) (int, error) {
	_, removed, err := s.sweep(ctx, cat)
	return removed, err
}

// Run sweeps all categories
func (s *Sweeper) Run(ctx context.Context) CleanupReport {
	report := CleanupReport{RunID: uuid.NewString(), Categories: map[domain.Category]CategoryCleanup{}}
	for _, cat := range domain.Categories() {
		total, removed, err := s.sweep(ctx, cat)
		if err != nil {
			lgr.Printf("[WARN] cleanup of %s failed: %v", cat, err)
		}
		report.Categories[cat] = CategoryCleanup{TotalArticles: total, ArticlesRemoved: removed}
		report.TotalRemoved += removed
		report.TotalRemaining += total - removed
		lgr.Printf("[INFO] %s: removed %d expired articles, %d remaining", cat, removed, total-removed)
	}
	report.Timestamp = s.now().UTC()
	return report
}

func (s *Sweeper) sweep(ctx context.Context, cat domain.Category) (total, removed int, err error) {
	recs, err := s.store.List(ctx, cat)
	if err != nil {
		return 0, 0, fmt.Errorf("list %s: %w", cat, err)
	}
	now := s.now()
	for _, rec := range recs {
		if !rec.Expired(now) {
			continue
		}
		if err := s.store.Delete(ctx, cat, rec.ID); err != nil {
			lgr.Printf("[WARN] failed to remove expired %s/%s: %v", cat, rec.ID, err)
			continue
		}
		lgr.Printf("[DEBUG] removed expired article: %s", rec.Title)
		removed++
	}
	return len(recs), removed, nil
}
