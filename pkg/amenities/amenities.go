// Package amenities cleans free-text amenity lists.
package amenities

import (
	"regexp"
	"strings"

	"github.com/carefinder/listingkit/internal/matcher"
)

// legacyPrefix marks a serialized array left behind by the old CMS export.
// Such values carry nothing worth recovering.
const legacyPrefix = "a:"

// Separator joins cleaned tokens.
const Separator = ", "

var (
	reSplit = regexp.MustCompile(`[;,]`)

	// stoplist holds boilerplate tokens scraped from listing pages that are
	// not amenities.
	stoplist = matcher.MustNewSet(matcher.Literal, []string{
		"about the chef",
	}, &matcher.Options{CaseInsensitive: true})
)

// Tokens returns the cleaned amenity tokens in first-seen order.
// Exact duplicates (after trimming) are dropped.
func Tokens(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, legacyPrefix) {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, part := range reSplit.Split(trimmed, -1) {
		token := strings.TrimSpace(part)
		if token == "" || seen[token] || stoplist.Match(token) {
			continue
		}
		seen[token] = true
		out = append(out, token)
	}
	return out
}

// Clean returns the cleaned list joined with ", ".
func Clean(raw string) string {
	return strings.Join(Tokens(raw), Separator)
}

// CleanOptional is Clean for values that may be absent. A nil input stays nil.
func CleanOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	cleaned := Clean(*raw)
	return &cleaned
}
