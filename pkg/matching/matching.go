// Package matching joins listing records across sources by normalized address
// and finds duplicate listings inside a single source.
//
// Matching is address-only. Distinct facilities sharing a street address
// (multi-building campuses) will match each other, and addresses that differ
// by more than the abbreviation table covers (suite numbers) will not.
package matching

import (
	"sort"
	"strings"

	"github.com/carefinder/listingkit/pkg/address"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/records"
)

// Result pairs a record from the first source with at most one record from
// the second source sharing its normalized address.
type Result struct {
	A   records.Record
	B   *records.Record
	Key string
}

// Matched reports whether a counterpart was found.
func (r Result) Matched() bool {
	return r.B != nil
}

// Summary counts match outcomes.
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Matched   int `json:"matched" yaml:"matched"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`
}

// Match returns one Result per record of a. A record matches when its fuzzy
// address key is present among b's keys; records without an address never
// match. When several records of b share the key, the representative is the
// first in canonical order (ID, then title, then full content), so the result
// does not depend on the order of either input. Results are sorted by key,
// ID and title.
//
// Both collections must be non-nil; empty collections are fine.
func Match(a, b []records.Record) ([]Result, error) {
	if err := errors.RequireNonNil("match", "a", a); err != nil {
		return nil, err
	}
	if err := errors.RequireNonNil("match", "b", b); err != nil {
		return nil, err
	}

	index := make(map[string]records.Record, len(b))
	for _, k := range sortedKeyed(b, address.Normalize) {
		if k.key == "" {
			continue
		}
		if _, ok := index[k.key]; !ok {
			index[k.key] = k.rec
		}
	}

	results := make([]Result, 0, len(a))
	for _, k := range sortedKeyed(a, address.Normalize) {
		res := Result{A: k.rec, Key: k.key}
		if k.key != "" {
			if rep, ok := index[k.key]; ok {
				res.B = &rep
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// Unmatched returns the results without a counterpart.
func Unmatched(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Matched() {
			out = append(out, r)
		}
	}
	return out
}

// Summarize counts matched and unmatched results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Matched() {
			s.Matched++
		}
	}
	s.Unmatched = s.Total - s.Matched
	return s
}

type keyed struct {
	key string
	rec records.Record
}

// sortedKeyed computes keyFn for every record and returns them in canonical
// order.
func sortedKeyed(rs []records.Record, keyFn func(string) string) []keyed {
	out := make([]keyed, len(rs))
	for i, r := range rs {
		out[i] = keyed{key: keyFn(r.Address()), rec: r}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].key != out[j].key {
			return out[i].key < out[j].key
		}
		return less(out[i].rec, out[j].rec)
	})
	return out
}

// less orders records by ID, title and then their full content.
func less(a, b records.Record) bool {
	if a.ID() != b.ID() {
		return a.ID() < b.ID()
	}
	if a.Title() != b.Title() {
		return a.Title() < b.Title()
	}
	return fingerprint(a) < fingerprint(b)
}

func fingerprint(r records.Record) string {
	var sb strings.Builder
	for _, k := range r.Fields() {
		sb.WriteString(k)
		sb.WriteByte(0)
		sb.WriteString(r[k])
		sb.WriteByte(0)
	}
	return sb.String()
}
