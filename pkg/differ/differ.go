// Package differ compares two snapshots of the same listing collection and
// reports field-level changes between them.
package differ

import (
	"sort"
	"strconv"
	"strings"

	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/records"
	"github.com/carefinder/listingkit/pkg/taxonomy"
)

// ChangeRecord is one field that differs between the before and after
// versions of a record.
type ChangeRecord struct {
	KeyValue string `json:"key_value" yaml:"key_value"`
	Field    string `json:"field" yaml:"field"`
	OldValue string `json:"old_value" yaml:"old_value"`
	NewValue string `json:"new_value" yaml:"new_value"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Comparator reports whether two field values are equal.
type Comparator func(oldValue, newValue string) bool

// Differ compares record snapshots.
type Differ interface {
	// ByKey returns the changes of field between records joined on key.
	ByKey(before, after []records.Record, key, field string) ([]ChangeRecord, error)

	// Statuses classifies every key of either side as added, removed,
	// changed or unchanged.
	Statuses(before, after []records.Record, key, field string) ([]StatusRow, Summary, error)
}

type differ struct {
	comparator  Comparator
	foldCase    *bool
	decodeTypes bool
}

// New creates a Differ.
func New(opts ...Option) Differ {
	d := &differ{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiffByKey joins before and after on the exact (trimmed) value of key and
// returns one ChangeRecord per joined pair whose field differs. Records present
// on one side only, and records without a key value, are not reported.
// When a key repeats within one side the last record wins.
//
// The type field is compared case-insensitively and trimmed unless an option
// says otherwise. Results are sorted by key value, numerically when both keys
// are integers.
func DiffByKey(before, after []records.Record, key, field string, opts ...Option) ([]ChangeRecord, error) {
	return New(opts...).ByKey(before, after, key, field)
}

// ByKey implements Differ.
func (d *differ) ByKey(before, after []records.Record, key, field string) ([]ChangeRecord, error) {
	beforeIdx, afterIdx, err := d.index("diff by key", before, after, key, field)
	if err != nil {
		return nil, err
	}

	var changes []ChangeRecord
	for _, k := range sortedKeys(afterIdx) {
		b, ok := beforeIdx[k]
		if !ok {
			continue
		}
		a := afterIdx[k]
		oldValue, newValue := d.value(b, field), d.value(a, field)
		if d.equal(field, oldValue, newValue) {
			continue
		}
		changes = append(changes, ChangeRecord{
			KeyValue: k,
			Field:    field,
			OldValue: oldValue,
			NewValue: newValue,
			Title:    firstNonEmpty(a.Title(), b.Title()),
		})
	}
	return changes, nil
}

func (d *differ) index(op string, before, after []records.Record, key, field string) (map[string]records.Record, map[string]records.Record, error) {
	if err := errors.RequireNonNil(op, "before", before); err != nil {
		return nil, nil, err
	}
	if err := errors.RequireNonNil(op, "after", after); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(key) == "" {
		return nil, nil, errors.NewValidationError("key", key, "key field is required")
	}
	if strings.TrimSpace(field) == "" {
		return nil, nil, errors.NewValidationError("field", field, "comparison field is required")
	}
	return indexBy(before, key), indexBy(after, key), nil
}

func indexBy(rs []records.Record, key string) map[string]records.Record {
	idx := make(map[string]records.Record, len(rs))
	for _, r := range rs {
		k := strings.TrimSpace(r.Value(key))
		if k == "" {
			continue
		}
		idx[k] = r
	}
	return idx
}

// value reads field, decoding it to a canonical type set when type decoding
// is enabled. A readable normalized_types column takes precedence over the
// raw field in that mode.
func (d *differ) value(r records.Record, field string) string {
	if !d.decodeTypes {
		return r.Value(field)
	}
	if nt := strings.TrimSpace(r.Value(constants.FieldNormalizedTypes)); nt != "" {
		return taxonomy.ParseSet(nt).String()
	}
	return taxonomy.Decode(r.Value(field)).String()
}

func (d *differ) equal(field, oldValue, newValue string) bool {
	if d.comparator != nil {
		return d.comparator(oldValue, newValue)
	}
	fold := strings.EqualFold(field, constants.FieldType)
	if d.foldCase != nil {
		fold = *d.foldCase
	}
	if fold {
		return FoldEqual(oldValue, newValue)
	}
	return oldValue == newValue
}

// FoldEqual compares two values after lowercasing and trimming them.
func FoldEqual(a, b string) bool {
	return strings.ToLower(strings.TrimSpace(a)) == strings.ToLower(strings.TrimSpace(b))
}

func sortedKeys(idx map[string]records.Record) []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

// SortKeys orders key values numerically when both are integers and
// lexicographically otherwise. Integers sort before other keys.
func SortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
}

func keyLess(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
