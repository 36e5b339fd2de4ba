package taxonomy

import (
	"sort"
	"strings"
)

// Set is an immutable, sorted set of canonical labels.
// The zero value is not valid; build sets with NewSet, Decode or ParseSet.
type Set struct {
	labels []Label
}

// NewSet builds a set from labels, de-duplicating and sorting them.
// Uncategorized is dropped when any other label is present, and an empty
// input yields {Uncategorized}.
func NewSet(labels ...Label) Set {
	seen := make(map[Label]bool, len(labels))
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		if l == "" || l == Uncategorized || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	if len(out) == 0 {
		return Set{labels: []Label{Uncategorized}}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return Set{labels: out}
}

// Labels returns a copy of the labels in sorted order.
func (s Set) Labels() []Label {
	out := make([]Label, len(s.labels))
	copy(out, s.labels)
	return out
}

// Strings returns the labels as plain strings.
func (s Set) Strings() []string {
	out := make([]string, len(s.labels))
	for i, l := range s.labels {
		out[i] = string(l)
	}
	return out
}

// Len returns the number of labels.
func (s Set) Len() int {
	return len(s.labels)
}

// Contains reports whether l is in the set.
func (s Set) Contains(l Label) bool {
	for _, x := range s.labels {
		if x == l {
			return true
		}
	}
	return false
}

// IsUncategorized reports whether the set is exactly {Uncategorized}.
func (s Set) IsUncategorized() bool {
	return len(s.labels) == 1 && s.labels[0] == Uncategorized
}

// Equal reports whether both sets hold the same labels.
func (s Set) Equal(other Set) bool {
	return s.String() == other.String()
}

// String joins the labels alphabetically with ", ". This is the form
// written to reports and compared by the reconciliation diff.
func (s Set) String() string {
	if len(s.labels) == 0 {
		return string(Uncategorized)
	}
	return strings.Join(s.Strings(), ", ")
}

// MarshalText implements encoding.TextMarshaler.
func (s Set) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
