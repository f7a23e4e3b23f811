package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CacheKey generates a cache key from components.
func CacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// AnalysisKey derives the cache key for an analysis of the given
// content and document type. Identical inputs map to the same key.
func AnalysisKey(content, documentType string) string {
	h := sha256.New()
	h.Write([]byte(documentType))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return CacheKey("analysis", hex.EncodeToString(h.Sum(nil)))
}

// GlossaryKey derives the cache key for a term explanation at a
// complexity level.
func GlossaryKey(term, complexityLevel string) string {
	return CacheKey("glossary", complexityLevel, strings.ToLower(strings.TrimSpace(term)))
}
