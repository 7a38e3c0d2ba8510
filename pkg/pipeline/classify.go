package pipeline

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/umputun/perspectives/pkg/content"
	"github.com/umputun/perspectives/pkg/domain"
)

// ClassifyPass classifies unclassified records and moves them to the partition of their category
type ClassifyPass struct {
	store      Store
	classifier Classifier
	migrator   *Migrator
	extractor  Extractor
	maxChars   int
	pause      time.Duration
	now        func() time.Time
}

// ClassifyParams defines classification pass dependencies
type ClassifyParams struct {
	Store      Store
	Classifier Classifier
	Extractor  Extractor     // optional, used for records without description
	MaxChars   int           // extracted text limit
	Pause      time.Duration // between classifier calls
	Now        func() time.Time
}

// NewClassifyPass makes a classification pass
func NewClassifyPass(p ClassifyParams) *ClassifyPass {
	res := &ClassifyPass{
		store:      p.Store,
		classifier: p.Classifier,
		migrator:   NewMigrator(p.Store),
		extractor:  p.Extractor,
		maxChars:   p.MaxChars,
		pause:      p.Pause,
		now:        p.Now,
	}
	if res.now == nil {
		res.now = time.Now
	}
	if res.maxChars <= 0 {
		res.maxChars = 1000
	}
	return res
}

// Run goes over all partitions. Already classified records are never touched,
// per-record failures are logged and skipped.
func (c *ClassifyPass) Run(ctx context.Context) ClassifyReport {
	report := ClassifyReport{RunID: uuid.NewString(), APIProviders: c.classifier.Available()}
	calls := 0

	for _, cat := range domain.Categories() {
		recs, err := c.store.List(ctx, cat)
		if err != nil {
			lgr.Printf("[WARN] can't list %s: %v", cat, err)
			continue
		}

		classified, moved := 0, 0
		for _, rec := range recs {
			if rec.Classified {
				continue
			}
			interrupted := func() ClassifyReport {
				lgr.Printf("[WARN] classification interrupted: %v", ctx.Err())
				report.TotalClassified += classified
				report.TotalMoved += moved
				report.LastClassification = c.now().UTC()
				return report
			}
			if calls > 0 && !c.wait(ctx) {
				return interrupted()
			}
			calls++

			res := c.classifier.Classify(ctx, rec.Title, c.input(ctx, rec))
			if ctx.Err() != nil {
				// result of a canceled call is the keyword fallback, record stays pending
				return interrupted()
			}
			ts := c.now().UTC()
			rec.Classified = true
			rec.Classification = &res
			rec.ClassifiedDate = &ts

			if res.Category != cat {
				if err := c.migrator.Move(ctx, rec, cat, res.Category); err != nil {
					lgr.Printf("[WARN] failed to move %s: %v", rec.ID, err)
					continue
				}
				lgr.Printf("[INFO] moved %q from %s to %s (%s, %.2f)", rec.Title, cat, res.Category, res.Provider, res.Confidence)
				moved++
			} else if err := c.store.Save(ctx, rec); err != nil {
				lgr.Printf("[WARN] failed to update %s: %v", rec.ID, err)
				continue
			}
			classified++
		}

		lgr.Printf("[INFO] %s: classified %d articles, moved %d", cat, classified, moved)
		report.TotalClassified += classified
		report.TotalMoved += moved
	}

	report.LastClassification = c.now().UTC()
	return report
}

// input is the description to classify with, extracted page text if the record has none
func (c *ClassifyPass) input(ctx context.Context, rec domain.Record) string {
	if rec.Description != "" || c.extractor == nil {
		return rec.Description
	}
	text, err := c.extractor.Extract(ctx, rec.Link)
	if err != nil {
		lgr.Printf("[DEBUG] no extracted text for %s: %v", rec.Link, err)
		return ""
	}
	return content.Truncate(text, c.maxChars)
}

// wait pauses between classifier calls, false if context canceled
func (c *ClassifyPass) wait(ctx context.Context) bool {
	if c.pause <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.pause):
		return true
	}
}
