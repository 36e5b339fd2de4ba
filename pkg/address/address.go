// Package address turns free-text street addresses into comparison keys.
//
// Two keys exist and they are not interchangeable. Normalize produces the
// fuzzy key used to join records across sources: it expands abbreviations and
// fixes common street-suffix typos. StrictKey produces the structural key used
// to find duplicates inside one source: it only lowercases and drops every
// non-word character.
//
// Neither key is meant for display.
package address

import (
	"regexp"
	"strings"
)

// Rule rewrites one whole word of a lowercased address.
type Rule struct {
	From string
	To   string
}

// rules is applied in order. When two rules could match the same word the
// earlier one wins; the table order is part of the normalization contract.
var rules = []Rule{
	{"dirve", "drive"},
	{"drvie", "drive"},
	{"strret", "street"},
	{"strt", "street"},
	{"stret", "street"},
	{"avenew", "avenue"},
	{"aveneu", "avenue"},
	{"rd", "road"},
	{"blvd", "boulevard"},
	{"dr", "drive"},
	{"ln", "lane"},
	{"st", "street"},
	{"ave", "avenue"},
	{"apt", "apartment"},
	{"ste", "suite"},
	{"e", "east"},
	{"w", "west"},
	{"n", "north"},
	{"s", "south"},
}

var (
	rePunct   = regexp.MustCompile(`[.,]`)
	reWord    = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	ruleIndex = indexRules(rules)
)

// indexRules keeps the first rule for each word so earlier rules win.
func indexRules(rs []Rule) map[string]string {
	idx := make(map[string]string, len(rs))
	for _, r := range rs {
		if _, ok := idx[r.From]; !ok {
			idx[r.From] = r.To
		}
	}
	return idx
}

// Rules returns a copy of the ordered correction dictionary.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Normalize returns the fuzzy matching key for raw.
//
//	Normalize("123 Main St., Apt 4") == "123 main street apartment 4"
//
// Empty or whitespace-only input yields "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToLower(raw)
	s = rePunct.ReplaceAllString(s, "")
	s = reWord.ReplaceAllStringFunc(s, func(word string) string {
		if to, ok := ruleIndex[word]; ok {
			return to
		}
		return word
	})
	// Fields splits on Unicode white space, so non-breaking spaces from
	// scraped pages collapse like ASCII ones.
	return strings.Join(strings.Fields(s), " ")
}

// StrictKey returns the structural duplicate-detection key for raw:
// lowercase with every non-word character removed, spaces included.
func StrictKey(raw string) string {
	return reNonWord.ReplaceAllString(strings.ToLower(raw), "")
}
