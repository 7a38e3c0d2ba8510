// Package pipeline implements the batch stages of the content pipeline: ingestion of new
// records from feeds, classification with category migration, duplicate removal and
// retention sweep. Each stage is a pass over the record store producing a report.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/perspectives/pkg/domain"
	"github.com/umputun/perspectives/pkg/store"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/ledger.go -pkg mocks -skip-ensure -fmt goimports . Ledger
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/classifier.go -pkg mocks -skip-ensure -fmt goimports . Classifier
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// Store is a record store partitioned by category
type Store interface {
	Save(ctx context.Context, rec domain.Record) error
	Get(ctx context.Context, cat domain.Category, id string) (domain.Record, error)
	List(ctx context.Context, cat domain.Category) ([]domain.Record, error)
	IDs(ctx context.Context, cat domain.Category) ([]string, error)
	Delete(ctx context.Context, cat domain.Category, id string) error
}

// Ledger counts records pulled from each source
type Ledger interface {
	Increment(ctx context.Context, name, url string) error
}

// Fetcher retrieves raw feed documents
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FeedParser turns a raw feed document into items
type FeedParser interface {
	Parse(raw []byte) []domain.FeedItem
}

// Classifier assigns a category to an article, never fails
type Classifier interface {
	Classify(ctx context.Context, title, description string) domain.Classification
	Available() map[string]bool
}

// Extractor retrieves readable article text by link
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Pipeline runs stages and writes their reports to the data directory
type Pipeline struct {
	Ingester *Ingester
	Classify *ClassifyPass
	Dedup    *DedupPass
	Sweeper  *Sweeper
	DataDir  string
}

// Fetch runs ingestion and writes fetch report
func (p *Pipeline) Fetch(ctx context.Context) (IngestReport, error) {
	rep, err := p.Ingester.Run(ctx)
	if err != nil {
		return rep, fmt.Errorf("ingest: %w", err)
	}
	return rep, p.write(FetchReportFile, rep)
}

// Classification runs classification pass and writes its report
func (p *Pipeline) Classification(ctx context.Context) (ClassifyReport, error) {
	rep := p.Classify.Run(ctx)
	return rep, p.write(ClassifyReportFile, rep)
}

// Deduplicate runs duplicate removal and writes its report
func (p *Pipeline) Deduplicate(ctx context.Context) (DedupReport, error) {
	rep := p.Dedup.Run(ctx)
	return rep, p.write(DedupReportFile, rep)
}

// Cleanup runs retention sweep and writes its report
func (p *Pipeline) Cleanup(ctx context.Context) (CleanupReport, error) {
	rep := p.Sweeper.Run(ctx)
	return rep, p.write(CleanupReportFile, rep)
}

// All runs every stage in order: fetch, classify, deduplicate, cleanup.
// Dedup follows classification, so copies left by an interrupted migration collapse in the same run.
// A failed stage is logged and the next one still runs, the first error is returned.
func (p *Pipeline) All(ctx context.Context) error {
	st := time.Now()
	var firstErr error
	keep := func(stage string, err error) {
		if err == nil {
			return
		}
		lgr.Printf("[ERROR] %s stage failed: %v", stage, err)
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", stage, err)
		}
	}

	_, err := p.Fetch(ctx)
	keep("fetch", err)
	_, err = p.Classification(ctx)
	keep("classify", err)
	_, err = p.Deduplicate(ctx)
	keep("dedup", err)
	_, err = p.Cleanup(ctx)
	keep("cleanup", err)

	lgr.Printf("[INFO] pipeline completed in %v", time.Since(st).Round(time.Millisecond))
	return firstErr
}

func (p *Pipeline) write(name string, report any) error {
	if p.DataDir == "" {
		return nil
	}
	if err := store.WriteJSON(filepath.Join(p.DataDir, name), report); err != nil {
		return fmt.Errorf("write report %s: %w", name, err)
	}
	return nil
}
