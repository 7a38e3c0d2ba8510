// Package dedup detects near-duplicate records and picks the one to keep.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	nonWordChars = regexp.MustCompile(`[^\w\s]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// Levenshtein returns the edit distance between a and b, counting runes
func Levenshtein(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Similarity returns (longest - distance) / longest, 1.0 for two empty strings
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	return float64(longest-Levenshtein(a, b)) / float64(longest)
}

// Normalize lower-cases s, drops punctuation and collapses whitespace
func Normalize(s string) string {
	s = nonWordChars.ReplaceAllString(strings.ToLower(s), "")
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}

// ContentHash is the sha256 of the normalized title and description joined by a space
func ContentHash(title, description string) string {
	sum := sha256.Sum256([]byte(Normalize(title) + " " + Normalize(description)))
	return hex.EncodeToString(sum[:])
}
