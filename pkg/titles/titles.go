// Package titles cleans listing titles and flags titles that carry
// operational notes instead of a facility name.
//
// CRM users often append remarks to a listing name ("Sunrise Villa / private
// pay only", "Oak House ... call first"). Clean strips the usual remark
// shapes; Blocked reports titles that should not be imported at all.
package titles

import (
	"regexp"
	"strings"

	"github.com/carefinder/listingkit/internal/matcher"
)

var (
	reAfterSlash = regexp.MustCompile(`\s*/.*`)
	reEllipsis   = regexp.MustCompile(`\s*\.\.\..*`)
	reDoNot      = regexp.MustCompile(`(?i)\s*\([^)]*do not[^)]*\)`)
	reSpace      = regexp.MustCompile(`\s+`)
)

// blocklist is matched case-insensitively anywhere in the title.
var blocklist = matcher.MustNewSet(matcher.Regex, []string{
	`\bdo\s+not\s+refer\b`,
	`\bdo\s+not\s+use\b`,
	`\bnot\s+signing\b`,
	`\bsurgery\b`,
	`\bsurgical\b`,
	`\btbi\b`,
	`\bonly\b.*\bagencies?\b`,
	`\bnot\s+working\s+with\b`,
	`\betc\.+`,
	`\.\.\.+`,
	`/.*only`,
	`\bprivate\s+only\b`,
	`\breferral\s+only\b`,
	`\bspecific\s+clients?\b`,

	`\bnot\s+adding\b`,
	`\bnot\s+accepting\b`,
	`\bno\s+longer\s+accepting\b`,
	`\bat\s+this\s+time\b`,
	`\bcurrently\s+not\b`,
	`\btemporarily\s+closed\b`,
	`\bunder\s+construction\b`,
	`\bcoming\s+soon\b`,
	`\bcall\s+for\s+availability\b`,
	`\breferral.*only\b`,
	`\bonly.*referral\b`,
	`\bagency.*only\b`,
	`\bonly.*agency\b`,
	`\bprivate.*pay.*only\b`,
	`\bmedicaid.*only\b`,
	`\binsurance.*only\b`,

	`no referral agents`,
	`agents not accepted`,
	`agencies not welcome`,
	`does not pay referral`,
	`no referral fee`,
	`referral fee`,
	`referral companies`,
	`referral agents`,
	`work with referral`,
	`pay referral`,
}, &matcher.Options{CaseInsensitive: true})

// Clean removes trailing remarks from a title: everything after the first
// slash, everything after an ellipsis, and parenthesized "do not" notes.
// Whitespace is collapsed.
func Clean(title string) string {
	if title == "" {
		return ""
	}
	title = reAfterSlash.ReplaceAllString(title, "")
	title = reEllipsis.ReplaceAllString(title, "")
	title = reDoNot.ReplaceAllString(title, "")
	return strings.TrimSpace(reSpace.ReplaceAllString(title, " "))
}

// Blocked reports whether the title is empty or contains an operational note.
func Blocked(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return true
	}
	return blocklist.Match(title)
}

// BlockedBy returns the first blocklist pattern the title matches.
func BlockedBy(title string) (string, bool) {
	m, ok := blocklist.FirstMatch(strings.TrimSpace(title))
	if !ok {
		return "", false
	}
	return m.Pattern(), true
}
