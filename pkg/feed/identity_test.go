package feed

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveID(t *testing.T) {
	hashed := ResolveID("", "Some title", "https://example.com/a")

	tests := []struct {
		name  string
		rawID string
		title string
		link  string
		want  string
	}{
		{name: "plain id", rawID: "article-123", want: "article-123"},
		{name: "urn id sanitized", rawID: "urn:uuid:1225c695-cfb8", want: "urn-uuid-1225c695-cfb8"},
		{name: "spaces and dots", rawID: " tag.example 42 ", want: "tag-example-42"},
		{name: "url id hashed", rawID: "https://example.com/a", title: "Some title", link: "https://example.com/a", want: hashed},
		{name: "path id hashed", rawID: "posts/42", title: "Some title", link: "https://example.com/a", want: hashed},
		{name: "query id hashed", rawID: "p?id=42", title: "Some title", link: "https://example.com/a", want: hashed},
		{name: "fragment id hashed", rawID: "page#42", title: "Some title", link: "https://example.com/a", want: hashed},
		{name: "empty id hashed", title: "Some title", link: "https://example.com/a", want: hashed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveID(tt.rawID, tt.title, tt.link))
		})
	}
}

func TestResolveID_Deterministic(t *testing.T) {
	id1 := ResolveID("", "AI model released", "https://example.com/news/1")
	id2 := ResolveID("", "AI model released", "https://example.com/news/1")
	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 32)
	assert.NotEqual(t, id1, ResolveID("", "AI model released", "https://example.com/news/2"))
}

func TestResolveID_StorageSafe(t *testing.T) {
	safe := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	for _, raw := range []string{"a/b", "x://y", "weird id!*&", "ünïcode", "", "   "} {
		id := ResolveID(raw, "t", "l")
		assert.NotEmpty(t, id)
		assert.Regexp(t, safe, id, "raw %q", raw)
		assert.NotContains(t, id, "://")
	}
}
