package matching

import (
	"sort"
	"strings"

	"github.com/carefinder/listingkit/pkg/address"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/records"
	"github.com/carefinder/listingkit/pkg/titles"
)

// Reason names the field a duplicate group shares.
type Reason string

// Duplicate reasons.
const (
	// ReasonAddress groups records with the same strict address key.
	ReasonAddress Reason = "address"
	// ReasonFuzzyAddress groups records with the same fuzzy address key.
	ReasonFuzzyAddress Reason = "fuzzy_address"
	// ReasonTitle groups records with an identical title.
	ReasonTitle Reason = "title"
)

// DuplicateGroup is a set of at least two records from one source sharing a
// title or an address key. Groups are reported for review; nothing is merged.
type DuplicateGroup struct {
	Reason  Reason           `json:"reason" yaml:"reason"`
	Key     string           `json:"key" yaml:"key"`
	Records []records.Record `json:"records" yaml:"records"`
}

// Size returns the number of records in the group.
func (g DuplicateGroup) Size() int {
	return len(g.Records)
}

// IDs returns the record IDs of the group in order.
func (g DuplicateGroup) IDs() []string {
	out := make([]string, len(g.Records))
	for i, r := range g.Records {
		out[i] = r.ID()
	}
	return out
}

// GroupRow is the flattened view of a DuplicateGroup for table and file output.
type GroupRow struct {
	Reason Reason `json:"Reason" yaml:"Reason"`
	Key    string `json:"Key" yaml:"Key"`
	Count  int    `json:"Count" yaml:"Count"`
	IDs    string `json:"IDs" yaml:"IDs"`
	Titles string `json:"Titles" yaml:"Titles"`
}

// GroupRows flattens groups, joining member IDs and titles with "; ".
func GroupRows(groups []DuplicateGroup) []GroupRow {
	out := make([]GroupRow, len(groups))
	for i, g := range groups {
		titles := make([]string, len(g.Records))
		for j, r := range g.Records {
			titles[j] = r.Title()
		}
		out[i] = GroupRow{
			Reason: g.Reason,
			Key:    g.Key,
			Count:  g.Size(),
			IDs:    strings.Join(g.IDs(), "; "),
			Titles: strings.Join(titles, "; "),
		}
	}
	return out
}

// FindDuplicates groups the records of one source by exact title
// (case-sensitive, as authored) and by strict address key. Empty titles and
// empty keys are never grouped. Groups are sorted by reason and key, and the
// records inside a group by ID and title.
func FindDuplicates(src []records.Record) ([]DuplicateGroup, error) {
	if err := errors.RequireNonNil("find duplicates", "src", src); err != nil {
		return nil, err
	}

	groups := group(src, ReasonTitle, func(r records.Record) string {
		if strings.TrimSpace(r.Title()) == "" {
			return ""
		}
		return r.Title()
	})
	groups = append(groups, group(src, ReasonAddress, func(r records.Record) string {
		return address.StrictKey(r.Address())
	})...)
	sortGroups(groups)
	return groups, nil
}

// Collisions groups the records of one source that share a fuzzy address key.
// Match picks a single representative for such keys; Collisions reports the
// rest so they are not silently merged.
func Collisions(src []records.Record) []DuplicateGroup {
	groups := group(src, ReasonFuzzyAddress, func(r records.Record) string {
		return address.Normalize(r.Address())
	})
	sortGroups(groups)
	return groups
}

// ExcludeBlockedTitles drops records whose title is empty or carries an
// operational note.
func ExcludeBlockedTitles(src []records.Record) []records.Record {
	out := make([]records.Record, 0, len(src))
	for _, r := range src {
		if !titles.Blocked(r.Title()) {
			out = append(out, r)
		}
	}
	return out
}

func group(src []records.Record, reason Reason, keyFn func(records.Record) string) []DuplicateGroup {
	byKey := make(map[string][]records.Record)
	for _, r := range src {
		k := keyFn(r)
		if k == "" {
			continue
		}
		byKey[k] = append(byKey[k], r)
	}

	var out []DuplicateGroup
	for k, rs := range byKey {
		if len(rs) < 2 {
			continue
		}
		sort.SliceStable(rs, func(i, j int) bool { return less(rs[i], rs[j]) })
		out = append(out, DuplicateGroup{Reason: reason, Key: k, Records: rs})
	}
	return out
}

func sortGroups(groups []DuplicateGroup) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Reason != groups[j].Reason {
			return groups[i].Reason < groups[j].Reason
		}
		return groups[i].Key < groups[j].Key
	})
}
