package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/perspectives/pkg/domain"
	"github.com/umputun/perspectives/pkg/feed"
	"github.com/umputun/perspectives/pkg/pipeline/mocks"
	"github.com/umputun/perspectives/pkg/store"
)

func newTestIngester(st Store, ledger Ledger, fetcher Fetcher, sources map[domain.Category][]domain.Source) *Ingester {
	return NewIngester(IngesterParams{Store: st, Ledger: ledger, Fetcher: fetcher, Parser: feed.NewNormalizer(),
		Sources: sources, Retries: 3, RetryDelay: time.Millisecond, Workers: 2, Interval: 12 * time.Hour, Now: fixedNow})
}

func TestIngester_IngestOne(t *testing.T) {
	ctx := context.Background()
	src := domain.Source{Name: "Lab Blog", RSS: "https://lab.example.com/rss", Credibility: 0.9, Active: true}

	t.Run("one new record per call in feed order", func(t *testing.T) {
		st := store.NewFiles(t.TempDir())
		ledger := okLedger()
		fetcher := feedFetcher(map[string][]byte{src.RSS: rssFeed(
			feedItem{title: "First", link: "https://lab.example.com/1", guid: "a1", desc: "&lt;p&gt;first &lt;b&gt;post&lt;/b&gt;&lt;/p&gt;"},
			feedItem{title: "Second", link: "https://lab.example.com/2", guid: "a2"},
		)})
		ing := newTestIngester(st, ledger, fetcher, nil)

		n, err := ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		rec, err := st.Get(ctx, domain.CategoryOptimist, "a1")
		require.NoError(t, err)
		assert.Equal(t, "First", rec.Title)
		assert.Equal(t, "first post", rec.Description)
		assert.Equal(t, "https://lab.example.com/1", rec.Link)
		assert.Equal(t, "Lab Blog", rec.Source)
		assert.Equal(t, domain.CategoryOptimist, rec.Category)
		assert.InDelta(t, 0.9, rec.Credibility, 1e-9)
		assert.False(t, rec.Classified)
		assert.Nil(t, rec.Classification)
		assert.Equal(t, testNow, rec.FetchedDate)
		assert.Equal(t, testNow.Add(24*time.Hour), rec.ExpiresDate)

		n, err = ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		_, err = st.Get(ctx, domain.CategoryOptimist, "a2")
		require.NoError(t, err)

		n, err = ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Equal(t, 0, n, "all items seen")

		require.Len(t, ledger.IncrementCalls(), 2)
		assert.Equal(t, "Lab Blog", ledger.IncrementCalls()[0].Name)
		assert.Equal(t, src.RSS, ledger.IncrementCalls()[0].URL)
	})

	t.Run("url-like guid gets hashed id", func(t *testing.T) {
		st := store.NewFiles(t.TempDir())
		fetcher := feedFetcher(map[string][]byte{src.RSS: rssFeed(
			feedItem{title: "Post", link: "https://lab.example.com/p", guid: "https://lab.example.com/?p=1"})})
		ing := newTestIngester(st, okLedger(), fetcher, nil)

		n, err := ing.IngestOne(ctx, src, domain.CategoryCoding)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		ids, err := st.IDs(ctx, domain.CategoryCoding)
		require.NoError(t, err)
		assert.Equal(t, []string{feed.ResolveID("", "Post", "https://lab.example.com/p")}, ids)
	})

	t.Run("id present in another partition is not ingested again", func(t *testing.T) {
		st := store.NewFiles(t.TempDir())
		require.NoError(t, st.Save(ctx, record(domain.CategorySkeptic, "a1", "First", "https://lab.example.com/1")))
		fetcher := feedFetcher(map[string][]byte{src.RSS: rssFeed(
			feedItem{title: "First", link: "https://lab.example.com/1", guid: "a1"})})
		ing := newTestIngester(st, okLedger(), fetcher, nil)

		n, err := ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		recs, err := st.List(ctx, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("malformed and empty feeds are not errors", func(t *testing.T) {
		st := store.NewFiles(t.TempDir())
		fetcher := feedFetcher(map[string][]byte{
			src.RSS:                     []byte("<html>not a feed</html>"),
			"https://empty.example.com": rssFeed(),
		})
		ing := newTestIngester(st, okLedger(), fetcher, nil)

		n, err := ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		n, err = ing.IngestOne(ctx, domain.Source{Name: "empty", RSS: "https://empty.example.com", Active: true}, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("fetch retried then failed", func(t *testing.T) {
		fetcher := feedFetcher(nil)
		ing := newTestIngester(store.NewFiles(t.TempDir()), okLedger(), fetcher, nil)

		_, err := ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.Error(t, err)
		assert.Len(t, fetcher.FetchCalls(), 3)
	})

	t.Run("fetch succeeds on retry", func(t *testing.T) {
		attempts := 0
		fetcher := &mocks.FetcherMock{FetchFunc: func(context.Context, string) ([]byte, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("timeout")
			}
			return rssFeed(feedItem{title: "Late", link: "https://lab.example.com/late", guid: "late"}), nil
		}}
		ing := newTestIngester(store.NewFiles(t.TempDir()), okLedger(), fetcher, nil)

		n, err := ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 3, attempts)
	})

	t.Run("failed save releases the id", func(t *testing.T) {
		ms := storeWith(store.NewFiles(t.TempDir()))
		files := ms.SaveFunc
		failed := false
		ms.SaveFunc = func(ctx context.Context, rec domain.Record) error {
			if !failed {
				failed = true
				return errors.New("disk full")
			}
			return files(ctx, rec)
		}
		ledger := okLedger()
		fetcher := feedFetcher(map[string][]byte{src.RSS: rssFeed(
			feedItem{title: "First", link: "https://lab.example.com/1", guid: "a1"})})
		ing := newTestIngester(ms, ledger, fetcher, nil)

		_, err := ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.Error(t, err)
		assert.Empty(t, ledger.IncrementCalls())

		n, err := ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("ledger failure does not fail ingestion", func(t *testing.T) {
		ledger := &mocks.LedgerMock{IncrementFunc: func(context.Context, string, string) error { return errors.New("locked") }}
		fetcher := feedFetcher(map[string][]byte{src.RSS: rssFeed(
			feedItem{title: "First", link: "https://lab.example.com/1", guid: "a1"})})
		ing := newTestIngester(store.NewFiles(t.TempDir()), ledger, fetcher, nil)

		n, err := ing.IngestOne(ctx, src, domain.CategoryOptimist)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("unknown category", func(t *testing.T) {
		ing := newTestIngester(store.NewFiles(t.TempDir()), okLedger(), feedFetcher(nil), nil)
		_, err := ing.IngestOne(ctx, src, "sports")
		require.Error(t, err)
	})
}

func TestIngester_Run(t *testing.T) {
	ctx := context.Background()
	good1 := domain.Source{Name: "Good One", RSS: "https://one.example.com/rss", Credibility: 0.8, Active: true}
	good2 := domain.Source{Name: "Good Two", RSS: "https://two.example.com/rss", Credibility: 0.6, Active: true}
	broken := domain.Source{Name: "Broken", RSS: "https://broken.example.com/rss", Credibility: 0.5, Active: true}
	inactive := domain.Source{Name: "Inactive", RSS: "https://inactive.example.com/rss", Credibility: 0.5, Active: false}

	feeds := map[string][]byte{
		good1.RSS:    rssFeed(feedItem{title: "One", link: "https://one.example.com/1", guid: "one-1"}, feedItem{title: "One b", link: "https://one.example.com/2", guid: "one-2"}),
		good2.RSS:    rssFeed(feedItem{title: "Two", link: "https://two.example.com/1", guid: "two-1"}),
		inactive.RSS: rssFeed(feedItem{title: "Hidden", link: "https://inactive.example.com/1", guid: "hidden"}),
	}
	sources := map[domain.Category][]domain.Source{
		domain.CategoryOptimist: {good1, broken, inactive},
		domain.CategoryCoding:   {good2},
		"sports":                {good1},
	}

	st := store.NewFiles(t.TempDir())
	fetcher := feedFetcher(feeds)
	ing := newTestIngester(st, okLedger(), fetcher, sources)

	report, err := ing.Run(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.TotalNewArticles)
	assert.Equal(t, 1, report.FailedSources)
	assert.Equal(t, map[domain.Category]int{domain.CategoryOptimist: 1, domain.CategoryCoding: 1}, report.Categories)
	assert.Equal(t, testNow, report.LastFetch)
	assert.Equal(t, testNow.Add(12*time.Hour), report.NextFetch)

	for _, c := range fetcher.FetchCalls() {
		assert.NotEqual(t, inactive.RSS, c.URL, "inactive source fetched")
	}

	// second run takes the next item of the first source, second source has nothing new
	report, err = ing.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalNewArticles)

	// third run finds nothing
	report, err = ing.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalNewArticles)

	ids, err := st.IDs(ctx, domain.CategoryOptimist)
	require.NoError(t, err)
	assert.Equal(t, []string{"one-1", "one-2"}, ids)
}

func TestIngester_RunSeesRecordsAddedBetweenRuns(t *testing.T) {
	ctx := context.Background()
	src := domain.Source{Name: "Blog", RSS: "https://blog.example.com/rss", Credibility: 0.8, Active: true}
	st := store.NewFiles(t.TempDir())
	ing := newTestIngester(st, okLedger(), feedFetcher(map[string][]byte{
		src.RSS: rssFeed(feedItem{title: "Post", link: "https://blog.example.com/1", guid: "p1"}),
	}), map[domain.Category][]domain.Source{domain.CategoryOptimist: {src}})

	// record appears in another partition before the run, e.g. moved by classification
	require.NoError(t, st.Save(ctx, record(domain.CategoryCoding, "p1", "Post", "https://blog.example.com/1")))

	report, err := ing.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalNewArticles)
}
