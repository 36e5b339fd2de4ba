package reconciler

import (
	"fmt"
	"time"

	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/matching"
)

// Report is the outcome of one reconciliation run.
type Report struct {
	RunID    string   `json:"run_id" yaml:"run_id"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`

	Matches    []matching.Result         `json:"-" yaml:"-"`
	Unmatched  []matching.Result         `json:"-" yaml:"-"`
	Collisions []matching.DuplicateGroup `json:"collisions" yaml:"collisions"`

	DuplicatesCRM         []matching.DuplicateGroup `json:"duplicates_crm" yaml:"duplicates_crm"`
	DuplicatesMarketplace []matching.DuplicateGroup `json:"duplicates_marketplace" yaml:"duplicates_marketplace"`

	Summary matching.Summary `json:"summary" yaml:"summary"`
}

// Metadata describes a run.
type Metadata struct {
	StartTime        time.Time     `json:"start_time" yaml:"start_time"`
	EndTime          time.Time     `json:"end_time" yaml:"end_time"`
	Duration         time.Duration `json:"duration" yaml:"duration"`
	CRMCount         int           `json:"crm_count" yaml:"crm_count"`
	MarketplaceCount int           `json:"marketplace_count" yaml:"marketplace_count"`
	Skipped          int           `json:"skipped" yaml:"skipped"`
}

// MatchRow is the flat, exportable form of a match result.
type MatchRow struct {
	ID               string `json:"ID" yaml:"ID"`
	Title            string `json:"Title" yaml:"Title"`
	Address          string `json:"Address" yaml:"Address"`
	Key              string `json:"Key" yaml:"Key"`
	MarketplaceTitle string `json:"Marketplace Title" yaml:"Marketplace Title"`
	MarketplaceURL   string `json:"Marketplace URL" yaml:"Marketplace URL"`
	MarketplaceType  string `json:"Marketplace Type" yaml:"Marketplace Type"`
}

// Rows flattens results for table and file output.
func Rows(results []matching.Result) []MatchRow {
	out := make([]MatchRow, len(results))
	for i, r := range results {
		row := MatchRow{
			ID:      r.A.ID(),
			Title:   r.A.Title(),
			Address: r.A.Address(),
			Key:     r.Key,
		}
		if r.B != nil {
			row.MarketplaceTitle = r.B.Title()
			row.MarketplaceURL = r.B.Value(constants.FieldURL)
			row.MarketplaceType = r.B.Value(constants.FieldType)
		}
		out[i] = row
	}
	return out
}

// String returns a one-line summary of the run.
func (r *Report) String() string {
	return fmt.Sprintf("Run %s: %d of %d CRM records matched, %d unmatched, %d collisions, %d CRM and %d marketplace duplicate groups",
		r.RunID, r.Summary.Matched, r.Summary.Total, r.Summary.Unmatched,
		len(r.Collisions), len(r.DuplicatesCRM), len(r.DuplicatesMarketplace))
}
