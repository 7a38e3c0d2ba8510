package llm

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/umputun/perspectives/pkg/domain"
)

var (
	optimistKeywords = []string{"breakthrough", "innovation", "advancement", "improve", "benefit", "success",
		"efficient", "revolutionary", "promising"}
	skepticKeywords = []string{"risk", "danger", "concern", "warning", "threat", "bias", "privacy", "job loss",
		"ethical", "regulation"}
	codingKeywords = []string{"api", "code", "programming", "developer", "github", "tool", "framework", "library",
		"software"}
)

// Fallback classifies by counting keyword hits. Optimist is the default, skeptic takes it
// when it has the top count, coding only when skeptic doesn't. Confidence grows 0.2 per hit up to 0.8.
func Fallback(title, description string) domain.Classification {
	text := strings.ToLower(title + " " + description)
	hits := func(keywords []string) int {
		return lo.CountBy(keywords, func(k string) bool { return strings.Contains(text, k) })
	}
	optimist, skeptic, coding := hits(optimistKeywords), hits(skepticKeywords), hits(codingKeywords)
	top := max(optimist, skeptic, coding)

	category := domain.CategoryOptimist
	switch {
	case top == skeptic && skeptic > 0:
		category = domain.CategorySkeptic
	case top == coding && coding > 0:
		category = domain.CategoryCoding
	}

	return domain.Classification{
		Category:   category,
		Confidence: math.Min(float64(top)*0.2, 0.8),
		Provider:   domain.ProviderFallback,
	}
}
