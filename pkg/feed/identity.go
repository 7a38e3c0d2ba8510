package feed

import (
	"crypto/md5" //nolint:gosec // digest is used as a storage key, not for security
	"encoding/hex"
	"regexp"
	"strings"
)

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// ResolveID derives a stable storage-safe identifier for a feed item.
// The feed-provided id is used when it doesn't look like a URL or path,
// otherwise the id is the hex digest of title and link.
func ResolveID(rawID, title, link string) string {
	rawID = strings.TrimSpace(rawID)
	if rawID != "" && !urlLike(rawID) {
		return unsafeIDChars.ReplaceAllString(rawID, "-")
	}
	sum := md5.Sum([]byte(title + link)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// urlLike reports whether the id contains a scheme, path, query or fragment marker
func urlLike(s string) bool {
	return strings.Contains(s, "://") || strings.ContainsAny(s, `/\?#`)
}
