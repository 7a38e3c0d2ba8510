// Package llm assigns stance categories to articles. Remote chat models are tried in order
// and a keyword heuristic answers when none of them is available.
package llm

import (
	"context"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/perspectives/pkg/domain"
)

// Provider is a remote classifier
type Provider interface {
	Name() string
	Enabled() bool
	Classify(ctx context.Context, title, description string) (domain.Classification, error)
}

// Classifier runs the provider chain with the keyword fallback at its end
type Classifier struct {
	providers []Provider
}

// NewClassifier makes a classifier trying providers in the given order
func NewClassifier(providers ...Provider) *Classifier {
	return &Classifier{providers: providers}
}

// Classify never fails: a provider without credentials is skipped, a failing one passes to the next.
// Once ctx is done the rest of the chain is not tried, callers should check ctx before using the result.
func (c *Classifier) Classify(ctx context.Context, title, description string) domain.Classification {
	for _, p := range c.providers {
		if ctx.Err() != nil {
			break
		}
		if !p.Enabled() {
			lgr.Printf("[DEBUG] no api key for %s, skipping", p.Name())
			continue
		}
		res, err := p.Classify(ctx, title, description)
		if err != nil {
			lgr.Printf("[WARN] %s classification failed: %v", p.Name(), err)
			continue
		}
		return res
	}
	return Fallback(title, description)
}

// Available reports which providers have credentials
func (c *Classifier) Available() map[string]bool {
	res := make(map[string]bool, len(c.providers))
	for _, p := range c.providers {
		res[p.Name()] = p.Enabled()
	}
	return res
}
