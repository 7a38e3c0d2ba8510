package feed

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
	"github.com/samber/lo"

	"github.com/umputun/perspectives/pkg/domain"
)

// Normalizer converts raw RSS and Atom documents into uniform feed items
type Normalizer struct {
	policy *bluemonday.Policy
}

// NewNormalizer makes a Normalizer stripping all markup from text fields
func NewNormalizer() *Normalizer {
	return &Normalizer{policy: bluemonday.StrictPolicy()}
}

// Parse extracts items from the raw feed. It never fails: malformed or unsupported
// documents are logged and produce an empty result. Items without title or link are dropped.
func (n *Normalizer) Parse(raw []byte) []domain.FeedItem {
	var items []domain.FeedItem
	var err error

	switch kind := gofeed.DetectFeedType(bytes.NewReader(raw)); kind {
	case gofeed.FeedTypeRSS:
		items, err = n.parseRSS(raw)
	case gofeed.FeedTypeAtom:
		items, err = n.parseAtom(raw)
	default:
		err = fmt.Errorf("unsupported feed type %d", kind)
	}
	if err != nil {
		lgr.Printf("[WARN] malformed feed skipped: %v", err)
		return []domain.FeedItem{}
	}

	return lo.Filter(items, func(it domain.FeedItem, _ int) bool {
		return it.Title != "" && it.Link != ""
	})
}

// parseRSS handles channel/item documents, including RSS 1.0
func (n *Normalizer) parseRSS(raw []byte) ([]domain.FeedItem, error) {
	fp := rss.Parser{}
	f, err := fp.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	items := make([]domain.FeedItem, 0, len(f.Items))
	for _, it := range f.Items {
		if it == nil {
			continue
		}
		item := domain.FeedItem{
			Title:       n.text(it.Title),
			Description: n.text(firstNonEmpty(it.Description, it.Content)),
			Link:        strings.TrimSpace(it.Link),
			PubDate:     strings.TrimSpace(it.PubDate),
		}
		if it.GUID != nil {
			item.GUID = n.text(it.GUID.Value)
		}
		items = append(items, item)
	}
	return items, nil
}

// parseAtom handles feed/entry documents
func (n *Normalizer) parseAtom(raw []byte) ([]domain.FeedItem, error) {
	fp := atom.Parser{}
	f, err := fp.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse atom: %w", err)
	}

	items := make([]domain.FeedItem, 0, len(f.Entries))
	for _, e := range f.Entries {
		if e == nil {
			continue
		}
		content := ""
		if e.Content != nil {
			content = e.Content.Value
		}
		items = append(items, domain.FeedItem{
			Title:       n.text(e.Title),
			Description: n.text(firstNonEmpty(e.Summary, content)),
			Link:        atomLink(e.Links),
			PubDate:     strings.TrimSpace(firstNonEmpty(e.Published, e.Updated)),
			GUID:        n.text(e.ID),
		})
	}
	return items, nil
}

// text strips markup, decodes entities and trims whitespace
func (n *Normalizer) text(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(n.policy.Sanitize(s)))
}

// atomLink picks the alternate link of an entry, falling back to the first one with href
func atomLink(links []*atom.Link) string {
	var fallback string
	for _, l := range links {
		if l == nil || strings.TrimSpace(l.Href) == "" {
			continue
		}
		if l.Rel == "" || l.Rel == "alternate" {
			return strings.TrimSpace(l.Href)
		}
		if fallback == "" {
			fallback = strings.TrimSpace(l.Href)
		}
	}
	return fallback
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
