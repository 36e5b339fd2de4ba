package differ

import (
	"fmt"
	"strings"

	"github.com/carefinder/listingkit/pkg/records"
	"github.com/carefinder/listingkit/pkg/taxonomy"
)

// Status classifies a key across two snapshots.
type Status string

const (
	// StatusAdded marks a key present only after.
	StatusAdded Status = "ADDED"
	// StatusRemoved marks a key present only before.
	StatusRemoved Status = "REMOVED"
	// StatusChanged marks a key whose field differs.
	StatusChanged Status = "CHANGED"
	// StatusUnchanged marks a key whose field is equal on both sides.
	StatusUnchanged Status = "UNCHANGED"
)

// StatusRow is one key of the union of both snapshots.
type StatusRow struct {
	KeyValue string `json:"key_value" yaml:"key_value"`
	Title    string `json:"title" yaml:"title"`
	Before   string `json:"before" yaml:"before"`
	After    string `json:"after" yaml:"after"`
	Status   Status `json:"status" yaml:"status"`
}

// Summary counts status rows.
type Summary struct {
	Added     int `json:"added" yaml:"added"`
	Removed   int `json:"removed" yaml:"removed"`
	Changed   int `json:"changed" yaml:"changed"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
}

// Total returns the number of keys counted.
func (s Summary) Total() int {
	return s.Added + s.Removed + s.Changed + s.Unchanged
}

// HasChanges returns true if any key was added, removed or changed.
func (s Summary) HasChanges() bool {
	return s.Added+s.Removed+s.Changed > 0
}

// String returns a human-readable summary.
func (s Summary) String() string {
	if !s.HasChanges() {
		return fmt.Sprintf("No changes detected (%d unchanged)", s.Unchanged)
	}
	parts := []string{}
	if s.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", s.Added))
	}
	if s.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", s.Removed))
	}
	if s.Changed > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", s.Changed))
	}
	parts = append(parts, fmt.Sprintf("%d unchanged", s.Unchanged))
	return strings.Join(parts, ", ")
}

// Statuses classifies every key found in before or after.
func Statuses(before, after []records.Record, key, field string, opts ...Option) ([]StatusRow, Summary, error) {
	return New(opts...).Statuses(before, after, key, field)
}

// Statuses implements Differ.
func (d *differ) Statuses(before, after []records.Record, key, field string) ([]StatusRow, Summary, error) {
	beforeIdx, afterIdx, err := d.index("statuses", before, after, key, field)
	if err != nil {
		return nil, Summary{}, err
	}

	union := make(map[string]records.Record, len(beforeIdx)+len(afterIdx))
	for k, r := range beforeIdx {
		union[k] = r
	}
	for k, r := range afterIdx {
		union[k] = r
	}

	var (
		rows    = make([]StatusRow, 0, len(union))
		summary Summary
	)
	for _, k := range sortedKeys(union) {
		b, inBefore := beforeIdx[k]
		a, inAfter := afterIdx[k]

		row := StatusRow{KeyValue: k}
		switch {
		case !inBefore:
			row.Status = StatusAdded
			row.After = d.value(a, field)
			row.Title = a.Title()
			summary.Added++
		case !inAfter:
			row.Status = StatusRemoved
			row.Before = d.value(b, field)
			row.Title = b.Title()
			summary.Removed++
		default:
			row.Before, row.After = d.value(b, field), d.value(a, field)
			row.Title = firstNonEmpty(a.Title(), b.Title())
			if d.equal(field, row.Before, row.After) {
				row.Status = StatusUnchanged
				summary.Unchanged++
			} else {
				row.Status = StatusChanged
				summary.Changed++
			}
		}
		rows = append(rows, row)
	}
	return rows, summary, nil
}

// FilterStatus returns the rows with one of the given statuses.
func FilterStatus(rows []StatusRow, statuses ...Status) []StatusRow {
	want := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []StatusRow
	for _, r := range rows {
		if want[r.Status] {
			out = append(out, r)
		}
	}
	return out
}

// ParseStatus converts a status name, in any case, to a Status.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusAdded, StatusRemoved, StatusChanged, StatusUnchanged:
		return st, true
	}
	return "", false
}

// TypeChangeRow is the reviewer-facing form of a type change.
type TypeChangeRow struct {
	ID      string `json:"ID" yaml:"ID"`
	Title   string `json:"Title" yaml:"Title"`
	OldType string `json:"Old Type" yaml:"Old Type"`
	NewType string `json:"New Type" yaml:"New Type"`
}

// TypeChangeRows converts changes into rows with the columns
// ID, Title, Old Type, New Type.
func TypeChangeRows(changes []ChangeRecord) []TypeChangeRow {
	out := make([]TypeChangeRow, len(changes))
	for i, c := range changes {
		out[i] = TypeChangeRow{ID: c.KeyValue, Title: c.Title, OldType: c.OldValue, NewType: c.NewValue}
	}
	return out
}

// Uncategorized returns the changes whose new value decodes to the
// Uncategorized type only.
func Uncategorized(changes []ChangeRecord) []ChangeRecord {
	var out []ChangeRecord
	for _, c := range changes {
		if canonical(c.NewValue).IsUncategorized() {
			out = append(out, c)
		}
	}
	return out
}

// canonical reads either a legacy blob or a readable label list.
func canonical(v string) taxonomy.Set {
	if strings.Contains(v, "i:") {
		return taxonomy.Decode(v)
	}
	return taxonomy.ParseSet(v)
}
