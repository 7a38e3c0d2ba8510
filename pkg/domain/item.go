package domain

import "time"

// FeedItem is a normalized entry from an RSS or Atom feed
type FeedItem struct {
	Title       string
	Description string
	Link        string
	PubDate     string // raw publication date as provided by the feed
	GUID        string // feed-provided identifier, may be empty or a URL
}

// Record is a stored article, one per logical story
type Record struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Link           string          `json:"link"`
	PubDate        string          `json:"pubDate"`
	Source         string          `json:"source"`
	Category       Category        `json:"category"`
	Credibility    float64         `json:"credibility"`
	Classified     bool            `json:"classified"`
	Classification *Classification `json:"classification,omitempty"`
	FetchedDate    time.Time       `json:"fetchedDate"`
	ExpiresDate    time.Time       `json:"expiresDate"`
	ClassifiedDate *time.Time      `json:"classifiedDate,omitempty"`
}

// Expired reports whether the record is past its expiry at the given time.
// A record expiring exactly at now is still alive.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresDate)
}

// Classification is the stance assigned to a record
type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Provider   string   `json:"provider"`
}

// classification providers
const (
	ProviderOpenAI   = "openai"
	ProviderClaude   = "claude"
	ProviderFallback = "fallback"
)
