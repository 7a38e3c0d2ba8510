package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/perspectives/pkg/config"
	"github.com/umputun/perspectives/pkg/domain"
)

type fakeProvider struct {
	name    string
	enabled bool
	res     domain.Classification
	err     error
	calls   int
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Enabled() bool { return f.enabled }
func (f *fakeProvider) Classify(context.Context, string, string) (domain.Classification, error) {
	f.calls++
	return f.res, f.err
}

func TestClassifier_Chain(t *testing.T) {
	ctx := context.Background()

	t.Run("first provider answers", func(t *testing.T) {
		a := &fakeProvider{name: "a", enabled: true, res: domain.Classification{Category: domain.CategorySkeptic, Confidence: 0.9, Provider: "a"}}
		b := &fakeProvider{name: "b", enabled: true}
		res := NewClassifier(a, b).Classify(ctx, "t", "d")
		assert.Equal(t, "a", res.Provider)
		assert.Equal(t, 0, b.calls)
	})

	t.Run("failing provider passes to next", func(t *testing.T) {
		a := &fakeProvider{name: "a", enabled: true, err: errors.New("timeout")}
		b := &fakeProvider{name: "b", enabled: true, res: domain.Classification{Category: domain.CategoryCoding, Confidence: 0.6, Provider: "b"}}
		res := NewClassifier(a, b).Classify(ctx, "t", "d")
		assert.Equal(t, "b", res.Provider)
		assert.Equal(t, 1, a.calls)
	})

	t.Run("disabled providers skipped", func(t *testing.T) {
		a := &fakeProvider{name: "a", enabled: false}
		b := &fakeProvider{name: "b", enabled: true, err: errors.New("bad answer")}
		res := NewClassifier(a, b).Classify(ctx, "AI breakthrough", "")
		assert.Equal(t, domain.ProviderFallback, res.Provider)
		assert.Equal(t, domain.CategoryOptimist, res.Category)
		assert.Equal(t, 0, a.calls)
	})
}

func TestClassifier_CanceledContextStopsChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &fakeProvider{name: "a", enabled: true, err: context.Canceled}
	b := &fakeProvider{name: "b", enabled: true, res: domain.Classification{Category: domain.CategoryCoding, Provider: "b"}}
	res := NewClassifier(a, b).Classify(ctx, "AI breakthrough", "")
	assert.Equal(t, domain.ProviderFallback, res.Provider)
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, 0, b.calls)
}

func TestClassifier_NoCredentials(t *testing.T) {
	c := NewClassifier(NewOpenAI(config.ProviderConfig{Model: "gpt-3.5-turbo"}), NewClaude(config.ProviderConfig{Model: "claude"}))
	res := c.Classify(context.Background(), "AI framework released on GitHub", "new developer tool")
	assert.Equal(t, domain.CategoryCoding, res.Category)
	assert.Equal(t, domain.ProviderFallback, res.Provider)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)

	assert.Equal(t, map[string]bool{domain.ProviderOpenAI: false, domain.ProviderClaude: false}, c.Available())
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		desc     string
		wantCat  domain.Category
		wantConf float64
	}{
		{name: "no keywords", title: "Weekly roundup", desc: "misc", wantCat: domain.CategoryOptimist, wantConf: 0},
		{name: "optimist", title: "A breakthrough in medicine", desc: "promising results", wantCat: domain.CategoryOptimist, wantConf: 0.4},
		{name: "skeptic", title: "Privacy concern over AI", desc: "regulation needed", wantCat: domain.CategorySkeptic, wantConf: 0.6},
		{name: "coding", title: "New GitHub tool", desc: "for every developer", wantCat: domain.CategoryCoding, wantConf: 0.6},
		{name: "skeptic wins tie with optimist", title: "Breakthrough carries risk", desc: "", wantCat: domain.CategorySkeptic, wantConf: 0.2},
		{name: "skeptic wins tie with coding", title: "Software bias", desc: "", wantCat: domain.CategorySkeptic, wantConf: 0.2},
		{name: "coding wins tie with optimist", title: "Innovation in software", desc: "", wantCat: domain.CategoryCoding, wantConf: 0.2},
		{name: "confidence capped", title: "api code programming developer github tool", desc: "framework library software",
			wantCat: domain.CategoryCoding, wantConf: 0.8},
		{name: "case insensitive", title: "THREAT AND DANGER", desc: "", wantCat: domain.CategorySkeptic, wantConf: 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Fallback(tt.title, tt.desc)
			assert.Equal(t, tt.wantCat, res.Category)
			assert.InDelta(t, tt.wantConf, res.Confidence, 1e-9)
			assert.Equal(t, domain.ProviderFallback, res.Provider)
		})
	}
}
