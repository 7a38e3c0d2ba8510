package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/perspectives/pkg/domain"
	"github.com/umputun/perspectives/pkg/feed"
)

// Ingester pulls at most one new record per source per run
type Ingester struct {
	store      Store
	ledger     Ledger
	fetcher    Fetcher
	parser     FeedParser
	sources    map[domain.Category][]domain.Source
	retention  time.Duration
	retries    int
	retryDelay time.Duration
	workers    int
	interval   time.Duration
	now        func() time.Time

	mu   sync.Mutex
	seen map[string]bool // ids present in any partition, nil until loaded
}

// IngesterParams defines ingester dependencies and settings
type IngesterParams struct {
	Store      Store
	Ledger     Ledger
	Fetcher    Fetcher
	Parser     FeedParser
	Sources    map[domain.Category][]domain.Source
	Retention  time.Duration // expiresDate = fetchedDate + Retention
	Retries    int           // fetch attempts per source
	RetryDelay time.Duration // initial backoff delay
	Workers    int           // categories processed concurrently
	Interval   time.Duration // reported as time to the next fetch
	Now        func() time.Time
}

// NewIngester makes an ingester, setting defaults for missing params
func NewIngester(p IngesterParams) *Ingester {
	res := &Ingester{
		store:      p.Store,
		ledger:     p.Ledger,
		fetcher:    p.Fetcher,
		parser:     p.Parser,
		sources:    p.Sources,
		retention:  p.Retention,
		retries:    p.Retries,
		retryDelay: p.RetryDelay,
		workers:    p.Workers,
		interval:   p.Interval,
		now:        p.Now,
	}
	if res.retention == 0 {
		res.retention = 24 * time.Hour
	}
	if res.retries <= 0 {
		res.retries = 3
	}
	if res.workers <= 0 {
		res.workers = 1
	}
	if res.interval == 0 {
		res.interval = 24 * time.Hour
	}
	if res.now == nil {
		res.now = time.Now
	}
	for cat := range p.Sources {
		if !cat.Valid() {
			lgr.Printf("[WARN] unknown category %q, its sources are ignored", cat)
		}
	}
	return res
}

// Run ingests all active sources. Categories run concurrently, sources of a category one by one.
// Per-source failures are logged and counted, error returned only if existing records can't be loaded.
func (i *Ingester) Run(ctx context.Context) (IngestReport, error) {
	st := i.now()
	report := IngestReport{
		RunID:      uuid.NewString(),
		LastFetch:  st.UTC(),
		NextFetch:  st.Add(i.interval).UTC(),
		Categories: map[domain.Category]int{},
	}

	i.mu.Lock()
	i.seen = nil
	i.mu.Unlock()
	if err := i.loadSeen(ctx); err != nil {
		return report, err
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(i.workers)
	for _, cat := range domain.Categories() {
		sources, ok := i.sources[cat]
		if !ok {
			continue
		}
		g.Go(func() error {
			added, failed := i.ingestCategory(ctx, cat, sources)
			mu.Lock()
			report.Categories[cat] = added
			report.TotalNewArticles += added
			report.FailedSources += failed
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	lgr.Printf("[INFO] ingestion %s completed, %d new articles, %d failed sources",
		report.RunID, report.TotalNewArticles, report.FailedSources)
	return report, nil
}

func (i *Ingester) ingestCategory(ctx context.Context, cat domain.Category, sources []domain.Source) (added, failed int) {
	lgr.Printf("[INFO] fetching %d sources for %s", len(sources), cat)
	for _, src := range sources {
		if ctx.Err() != nil {
			return added, failed
		}
		if !src.Active {
			lgr.Printf("[DEBUG] source %s is inactive, skipped", src.Name)
			continue
		}
		n, err := i.IngestOne(ctx, src, cat)
		if err != nil {
			lgr.Printf("[WARN] source %s failed: %v", src.Name, err)
			failed++
			continue
		}
		added += n
	}
	lgr.Printf("[INFO] %s: added %d new articles", cat, added)
	return added, failed
}

// IngestOne fetches the source and persists its first item not yet in the store.
// Returns the number of new records, 0 or 1. Empty feed or all items seen is not an error.
func (i *Ingester) IngestOne(ctx context.Context, src domain.Source, cat domain.Category) (int, error) {
	if !cat.Valid() {
		return 0, fmt.Errorf("unknown category %q", cat)
	}
	if err := i.loadSeen(ctx); err != nil {
		return 0, err
	}

	raw, err := i.fetch(ctx, src.RSS)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", src.RSS, err)
	}

	now := i.now().UTC()
	for _, item := range i.parser.Parse(raw) {
		id := feed.ResolveID(item.GUID, item.Title, item.Link)
		if !i.claim(id) {
			continue
		}

		rec := domain.Record{
			ID:          id,
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
			PubDate:     item.PubDate,
			Source:      src.Name,
			Category:    cat,
			Credibility: src.Credibility,
			FetchedDate: now,
			ExpiresDate: now.Add(i.retention),
		}
		if err := i.store.Save(ctx, rec); err != nil {
			i.release(id)
			return 0, fmt.Errorf("save record %s: %w", id, err)
		}
		if err := i.ledger.Increment(ctx, src.Name, src.RSS); err != nil {
			lgr.Printf("[WARN] failed to update pull log for %s: %v", src.Name, err)
		}
		lgr.Printf("[INFO] saved %s article from %s: %s", cat, src.Name, rec.Title)
		return 1, nil
	}

	lgr.Printf("[DEBUG] nothing new from %s", src.Name)
	return 0, nil
}

// fetch retries with exponential backoff
func (i *Ingester) fetch(ctx context.Context, url string) ([]byte, error) {
	var raw []byte
	retrier := repeater.NewBackoff(i.retries, i.retryDelay, repeater.WithMaxDelay(4*i.retryDelay))
	err := retrier.Do(ctx, func() error {
		data, err := i.fetcher.Fetch(ctx, url)
		if err != nil {
			lgr.Printf("[DEBUG] fetch %s failed: %v", url, err)
			return err
		}
		raw = data
		return nil
	})
	return raw, err
}

// loadSeen reads ids of all partitions once per run
func (i *Ingester) loadSeen(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.seen != nil {
		return nil
	}
	seen := map[string]bool{}
	for _, cat := range domain.Categories() {
		ids, err := i.store.IDs(ctx, cat)
		if err != nil {
			return fmt.Errorf("load existing ids of %s: %w", cat, err)
		}
		for _, id := range ids {
			seen[id] = true
		}
	}
	i.seen = seen
	return nil
}

// claim marks id as taken, false if it was already
func (i *Ingester) claim(id string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.seen[id] {
		return false
	}
	i.seen[id] = true
	return true
}

func (i *Ingester) release(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.seen, id)
}
