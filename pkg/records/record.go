// Package records defines the flat listing record shared by every source and
// the normalized view derived from it.
package records

import (
	"sort"
	"strings"

	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/errors"
)

const bom = "\ufeff"

// Record is one raw listing row: field name to string value.
// The only fields callers may rely on are an identifier and a title.
type Record map[string]string

// New builds a Record from alternating field/value pairs.
// A trailing field without a value is ignored.
func New(kv ...string) Record {
	r := make(Record, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i]] = kv[i+1]
	}
	return r
}

// Get returns the value of field and whether it exists.
//
// An exact key wins. Otherwise keys are compared case-insensitively after
// stripping a UTF-8 BOM and surrounding spaces, so a BOM-prefixed "ID", "Id"
// and "id" all resolve "ID". When several keys fold to the same name the
// lexicographically smallest key is used.
func (r Record) Get(field string) (string, bool) {
	if v, ok := r[field]; ok {
		return v, true
	}
	want := foldKey(field)
	var (
		best  string
		found bool
	)
	for k := range r {
		if foldKey(k) != want {
			continue
		}
		if !found || k < best {
			best, found = k, true
		}
	}
	if !found {
		return "", false
	}
	return r[best], true
}

// Value returns the value of field or "" when absent.
func (r Record) Value(field string) string {
	v, _ := r.Get(field)
	return v
}

// Require returns the value of field or a MissingFieldError.
func (r Record) Require(field string) (string, error) {
	v, ok := r.Get(field)
	if !ok {
		return "", errors.NewMissingFieldError(field, r.ID())
	}
	return v, nil
}

// Has reports whether field is present.
func (r Record) Has(field string) bool {
	_, ok := r.Get(field)
	return ok
}

// ID returns the record identifier.
func (r Record) ID() string { return r.Value(constants.FieldID) }

// Title returns the listing title.
func (r Record) Title() string { return r.Value(constants.FieldTitle) }

// Address returns the raw street address.
func (r Record) Address() string { return r.Value(constants.FieldAddress) }

// Clone returns an independent copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Fields returns the field names in sorted order.
func (r Record) Fields() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// With returns a copy with field set to value.
func (r Record) With(field, value string) Record {
	out := r.Clone()
	if out == nil {
		out = Record{}
	}
	out[field] = value
	return out
}

// SanitizeKey strips a BOM and surrounding whitespace from a header name.
func SanitizeKey(k string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(k), bom))
}

func foldKey(k string) string {
	return strings.ToLower(SanitizeKey(k))
}
