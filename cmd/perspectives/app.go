package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/umputun/perspectives/pkg/config"
	"github.com/umputun/perspectives/pkg/content"
	"github.com/umputun/perspectives/pkg/domain"
	"github.com/umputun/perspectives/pkg/feed"
	"github.com/umputun/perspectives/pkg/ledger"
	"github.com/umputun/perspectives/pkg/llm"
	"github.com/umputun/perspectives/pkg/pipeline"
	"github.com/umputun/perspectives/pkg/store"
)

const pullLogFile = "source-pulls.json"

// pullLog is a ledger able to report its content
type pullLog interface {
	pipeline.Ledger
	Load(ctx context.Context) (domain.PullLog, error)
}

// app holds wired components for a single command run
type app struct {
	cfg   *config.Config
	store pipeline.Store
	pulls pullLog
	pipe  *pipeline.Pipeline
	db    *sqlx.DB // set for sqlite engine only
}

// newApp makes store, ledger and pipeline stages from the config.
// Sources are loaded only if needSources is set, other commands work without the sources file.
func newApp(ctx context.Context, cfg *config.Config, needSources bool) (*app, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("make data dir %s: %w", cfg.DataDir, err)
	}

	res := &app{cfg: cfg}
	switch cfg.Store.Engine {
	case "sqlite":
		db, err := store.OpenSQLite(cfg.Store.DSN, cfg.Store.MaxOpenConns)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		res.db = db
		if res.store, err = store.NewSQLite(ctx, db); err != nil {
			res.Close()
			return nil, fmt.Errorf("make sqlite store: %w", err)
		}
		if res.pulls, err = ledger.NewSQLite(ctx, db); err != nil {
			res.Close()
			return nil, fmt.Errorf("make sqlite ledger: %w", err)
		}
	default:
		res.store = store.NewFiles(cfg.Store.ContentDir)
		res.pulls = ledger.NewJSON(filepath.Join(cfg.DataDir, pullLogFile))
	}
	lgr.Printf("[DEBUG] store engine %s", cfg.Store.Engine)

	var sources map[domain.Category][]domain.Source
	if needSources {
		var err error
		if sources, err = config.LoadSources(cfg.SourcesFile); err != nil {
			res.Close()
			return nil, fmt.Errorf("load sources: %w", err)
		}
		total := lo.Reduce(lo.Values(sources), func(acc int, s []domain.Source, _ int) int { return acc + len(s) }, 0)
		lgr.Printf("[INFO] loaded %d sources in %d categories from %s", total, len(sources), cfg.SourcesFile)
	}

	var extractor pipeline.Extractor // stays nil interface if extraction disabled
	if cfg.Extraction.Enabled {
		extractor = content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent)
	}

	classifier := llm.NewClassifier(llm.NewOpenAI(cfg.Classifier.OpenAI), llm.NewClaude(cfg.Classifier.Claude))

	res.pipe = &pipeline.Pipeline{
		Ingester: pipeline.NewIngester(pipeline.IngesterParams{
			Store:      res.store,
			Ledger:     res.pulls,
			Fetcher:    feed.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
			Parser:     feed.NewNormalizer(),
			Sources:    sources,
			Retention:  cfg.Retention,
			Retries:    cfg.Fetch.Retries,
			RetryDelay: cfg.Fetch.RetryDelay,
			Workers:    cfg.Fetch.Workers,
			Interval:   cfg.Fetch.Interval,
		}),
		Classify: pipeline.NewClassifyPass(pipeline.ClassifyParams{
			Store:      res.store,
			Classifier: classifier,
			Extractor:  extractor,
			MaxChars:   cfg.Extraction.MaxChars,
			Pause:      cfg.Classifier.Pause,
		}),
		Dedup:   pipeline.NewDedupPass(res.store),
		Sweeper: pipeline.NewSweeper(res.store, nil),
		DataDir: cfg.DataDir,
	}
	return res, nil
}

// Close releases the database if one was opened
func (a *app) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		lgr.Printf("[WARN] failed to close database: %v", err)
	}
}

// sortedCategories returns categories of the map in canonical order
func sortedCategories[V any](m map[domain.Category]V) []domain.Category {
	return lo.Filter(domain.Categories(), func(c domain.Category, _ int) bool {
		_, ok := m[c]
		return ok
	})
}
