package dedup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetric %q vs %q", tt.b, tt.a)
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("abc", "abc"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", ""), 1e-9)
	assert.InDelta(t, 0.75, Similarity("abcd", "abcx"), 1e-9)
}

func TestSimilarity_ThresholdBoundary(t *testing.T) {
	// 20 runes, 3 substitutions: (20-3)/20 = 0.85 exactly
	a := strings.Repeat("a", 20)
	b := strings.Repeat("b", 3) + strings.Repeat("a", 17)
	assert.Equal(t, 0.85, Similarity(a, b))
	assert.False(t, Similarity(a, b) > TitleThreshold)

	// 1000 runes, 149 substitutions: 0.851
	a = strings.Repeat("a", 1000)
	b = strings.Repeat("b", 149) + strings.Repeat("a", 851)
	assert.InDelta(t, 0.851, Similarity(a, b), 1e-12)
	assert.True(t, Similarity(a, b) > TitleThreshold)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world", Normalize("  Hello,   World!! "))
	assert.Equal(t, "ai models 2024", Normalize("AI-models: 2024?"))
	assert.Equal(t, "", Normalize("!!!"))
}

func TestContentHash(t *testing.T) {
	h1 := ContentHash("OpenAI releases GPT-5!", "The new model is here.")
	h2 := ContentHash("openai releases gpt5", "the   new model is here")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, ContentHash("OpenAI releases GPT-5", "Another text"))
}
