package pipeline

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/umputun/perspectives/pkg/dedup"
	"github.com/umputun/perspectives/pkg/domain"
)

// DedupPass removes duplicates across all partitions, keeping the best record of each group
type DedupPass struct {
	store Store
	now   func() time.Time
}

// NewDedupPass makes a dedup pass over the store
func NewDedupPass(s Store) *DedupPass {
	return &DedupPass{store: s, now: time.Now}
}

// Run finds duplicate groups and deletes all records but the survivor.
// Records are deleted by partition and id, so two copies sharing an id collapse too.
func (d *DedupPass) Run(ctx context.Context) DedupReport {
	var all []domain.Record
	for _, cat := range domain.Categories() {
		recs, err := d.store.List(ctx, cat)
		if err != nil {
			lgr.Printf("[WARN] can't list %s: %v", cat, err)
			continue
		}
		all = append(all, recs...)
	}

	groups := dedup.FindGroups(all)
	report := DedupReport{
		RunID:                  uuid.NewString(),
		TotalArticlesProcessed: len(all),
		DuplicateGroupsFound:   len(groups),
		DuplicateGroups:        []DuplicateGroup{},
	}
	lgr.Printf("[INFO] found %d duplicate groups in %d articles", len(groups), len(all))

	for _, group := range groups {
		idx := dedup.Survivor(group)
		kept := group[idx]
		dg := DuplicateGroup{Kept: refOf(kept), Removed: []RecordRef{}}
		for j, rec := range group {
			if j == idx || (rec.Category == kept.Category && rec.ID == kept.ID) {
				continue
			}
			if err := d.store.Delete(ctx, rec.Category, rec.ID); err != nil {
				lgr.Printf("[WARN] failed to remove duplicate %s/%s: %v", rec.Category, rec.ID, err)
				continue
			}
			lgr.Printf("[INFO] removed duplicate %q (%s), kept %q (%s)", rec.Title, rec.Source, kept.Title, kept.Source)
			dg.Removed = append(dg.Removed, refOf(rec))
			report.ArticlesRemoved++
		}
		report.DuplicateGroups = append(report.DuplicateGroups, dg)
	}

	report.ArticlesRemaining = len(all) - report.ArticlesRemoved
	report.Timestamp = d.now().UTC()
	return report
}
