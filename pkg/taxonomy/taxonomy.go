// Package taxonomy maps raw facility "type" values onto the fixed set of
// canonical facility-type labels.
//
// Raw values arrive either as a readable label ("Memory Care") or as a legacy
// serialized array produced by the CMS export (`a:2:{i:0;i:162;i:1;i:1;}`).
// The legacy form is not parsed; every `i:<digits>` token is read as a
// taxonomy code, which tolerates truncated and malformed blobs.
package taxonomy

import (
	"regexp"
	"strings"
)

// Label is one canonical facility type.
type Label string

// Canonical facility-type vocabulary.
const (
	AssistedLivingHome Label = "Assisted Living Home"
	BoardAndCareHome   Label = "Board and Care Home"
	IndependentLiving  Label = "Independent Living"
	MemoryCare         Label = "Memory Care"
	NursingHome        Label = "Nursing Home"
	Uncategorized      Label = "Uncategorized"
)

// vocabulary is in display order.
var vocabulary = []Label{
	AssistedLivingHome,
	BoardAndCareHome,
	IndependentLiving,
	MemoryCare,
	NursingHome,
	Uncategorized,
}

// codes maps CMS taxonomy term IDs to labels.
var codes = map[int]Label{
	162: AssistedLivingHome,
	5:   BoardAndCareHome,
	6:   IndependentLiving,
	3:   MemoryCare,
	7:   NursingHome,
	1:   Uncategorized,
}

// aliases rewrites historical names used by one of the sources.
var aliases = map[string]Label{
	"Assisted Living": AssistedLivingHome,
}

var reCode = regexp.MustCompile(`i:(\d+)`)

// Vocabulary returns the canonical labels.
func Vocabulary() []Label {
	out := make([]Label, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// IsCanonical reports whether s is exactly one vocabulary label.
func IsCanonical(s string) bool {
	_, ok := lookup(s)
	return ok
}

// LabelForCode returns the label for a legacy taxonomy code.
func LabelForCode(code int) (Label, bool) {
	l, ok := codes[code]
	return l, ok
}

func lookup(s string) (Label, bool) {
	for _, l := range vocabulary {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// resolve maps a readable name to a label, applying aliases.
func resolve(s string) (Label, bool) {
	s = strings.TrimSpace(s)
	if l, ok := aliases[s]; ok {
		return l, true
	}
	return lookup(s)
}

// Decode returns the canonical type set for a raw type value.
// The result is never empty and only contains Uncategorized when no other
// label applies. Unknown codes are ignored.
func Decode(raw string) Set {
	if l, ok := resolve(raw); ok {
		return NewSet(l)
	}

	var candidates []Label
	for _, m := range reCode.FindAllStringSubmatch(raw, -1) {
		code, ok := parseCode(m[1])
		if !ok {
			continue
		}
		if l, ok := codes[code]; ok {
			candidates = append(candidates, l)
		}
	}
	return NewSet(candidates...)
}

// DecodeString is Decode followed by Set.String.
func DecodeString(raw string) string {
	return Decode(raw).String()
}

// ParseSet reads an already readable, comma-separated label list such as an
// export's normalized_types column. Unrecognized names are dropped.
func ParseSet(s string) Set {
	var labels []Label
	for _, part := range strings.Split(s, ",") {
		if l, ok := resolve(part); ok {
			labels = append(labels, l)
		}
	}
	return NewSet(labels...)
}

// parseCode converts the digits captured by reCode. Codes too long to be
// real term IDs are treated as unknown.
func parseCode(digits string) (int, bool) {
	if len(digits) > 9 {
		return 0, false
	}
	n := 0
	for _, c := range digits {
		n = n*10 + int(c-'0')
	}
	return n, true
}
