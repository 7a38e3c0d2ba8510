package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/perspectives/pkg/domain"
	"github.com/umputun/perspectives/pkg/store"
)

func TestSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	st := store.NewFiles(t.TempDir())

	exact := record(domain.CategoryOptimist, "exact", "Expires now", "https://example.com/exact")
	exact.ExpiresDate = testNow
	past := record(domain.CategoryOptimist, "past", "Expired a ms ago", "https://example.com/past")
	past.ExpiresDate = testNow.Add(-time.Millisecond)
	future := record(domain.CategoryOptimist, "future", "Fresh", "https://example.com/future")
	for _, r := range []domain.Record{exact, past, future} {
		require.NoError(t, st.Save(ctx, r))
	}

	removed, err := NewSweeper(st, fixedNow).Sweep(ctx, domain.CategoryOptimist)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	ids, err := st.IDs(ctx, domain.CategoryOptimist)
	require.NoError(t, err)
	assert.Equal(t, []string{"exact", "future"}, ids)

	// a millisecond later the record expiring exactly at testNow goes too
	removed, err = NewSweeper(st, func() time.Time { return testNow.Add(time.Millisecond) }).Sweep(ctx, domain.CategoryOptimist)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	ids, err = st.IDs(ctx, domain.CategoryOptimist)
	require.NoError(t, err)
	assert.Equal(t, []string{"future"}, ids)
}

func TestSweeper_Run(t *testing.T) {
	ctx := context.Background()
	files := store.NewFiles(t.TempDir())

	expired := record(domain.CategoryCoding, "old", "Old", "https://example.com/old")
	expired.ExpiresDate = testNow.Add(-time.Hour)
	stuck := record(domain.CategoryCoding, "stuck", "Stuck", "https://example.com/stuck")
	stuck.ExpiresDate = testNow.Add(-time.Hour)
	for _, r := range []domain.Record{
		expired, stuck,
		record(domain.CategoryCoding, "fresh", "Fresh", "https://example.com/fresh"),
		record(domain.CategorySkeptic, "s1", "Skeptic", "https://example.com/s1"),
	} {
		require.NoError(t, files.Save(ctx, r))
	}

	ms := storeWith(files)
	ms.DeleteFunc = func(ctx context.Context, cat domain.Category, id string) error {
		if id == "stuck" {
			return errors.New("permission denied")
		}
		return files.Delete(ctx, cat, id)
	}

	report := NewSweeper(ms, fixedNow).Run(ctx)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, testNow, report.Timestamp)
	assert.Equal(t, 1, report.TotalRemoved)
	assert.Equal(t, 3, report.TotalRemaining)
	assert.Equal(t, map[domain.Category]CategoryCleanup{
		domain.CategoryOptimist: {TotalArticles: 0, ArticlesRemoved: 0},
		domain.CategorySkeptic:  {TotalArticles: 1, ArticlesRemoved: 0},
		domain.CategoryCoding:   {TotalArticles: 3, ArticlesRemoved: 1},
	}, report.Categories)
}
