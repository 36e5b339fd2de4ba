// Package cms pushes normalized listing fields to the content management
// system through a generic Updater.
package cms

import (
	"context"
	"sort"

	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/records"
)

// Update is a partial write of one listing.
type Update struct {
	ID     string            `json:"id" yaml:"id"`
	Title  string            `json:"title,omitempty" yaml:"title,omitempty"`
	Fields map[string]string `json:"fields" yaml:"fields"`
}

// Updater writes listing updates to an external system.
type Updater interface {
	Update(ctx context.Context, u Update) error
}

// BuildUpdates derives the type and amenities writes for normalized records.
// Records without an ID cannot be addressed and are skipped. Amenities are
// only written for records that carry an amenities field.
func BuildUpdates(ns []records.Normalized) []Update {
	out := make([]Update, 0, len(ns))
	for _, n := range ns {
		if n.ID() == "" {
			continue
		}
		fields := map[string]string{
			constants.FieldType: n.CanonicalType.String(),
		}
		// Without a source value the stored amenities are left untouched.
		if n.HasAmenities() {
			fields[constants.FieldAmenities] = *n.CleanedAmenities
		}
		out = append(out, Update{ID: n.ID(), Title: n.Title(), Fields: fields})
	}
	return out
}

// Failure records one update that could not be applied.
type Failure struct {
	ID  string
	Err error
}

// PushResult summarizes a Push.
type PushResult struct {
	Updated  int
	Failures []Failure
}

// Push applies updates in order. A failing update is recorded and the push
// continues; cancellation stops it.
func Push(ctx context.Context, u Updater, updates []Update) (*PushResult, error) {
	logger := logging.FromContext(ctx)
	result := &PushResult{}

	for i, up := range updates {
		if err := ctx.Err(); err != nil {
			return result, errors.WrapAPI("cms", 0, err)
		}
		if err := u.Update(ctx, up); err != nil {
			logger.Warn().
				Err(err).
				Str("id", up.ID).
				Msg("Failed to update listing")
			result.Failures = append(result.Failures, Failure{ID: up.ID, Err: err})
			continue
		}
		result.Updated++
		logger.Debug().
			Str("id", up.ID).
			Int("progress", i+1).
			Int("total", len(updates)).
			Msg("Updated listing")
	}
	return result, nil
}

// DryRun records updates without sending them.
type DryRun struct {
	Updates []Update
}

// Update implements Updater.
func (d *DryRun) Update(ctx context.Context, u Update) error {
	fields := make([]string, 0, len(u.Fields))
	for k := range u.Fields {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	logging.FromContext(ctx).Info().
		Str("id", u.ID).
		Strs("fields", fields).
		Msg("Dry run: would update listing")
	d.Updates = append(d.Updates, u)
	return nil
}
