package reconciler

import (
	"time"

	"github.com/google/uuid"

	"github.com/carefinder/listingkit/pkg/errors"
)

type options struct {
	skipBlocked bool
	now         func() time.Time
	newID       func() string
}

func defaultOptions() *options {
	return &options{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSkipBlocked excludes records whose titles carry operational notes
// before matching.
func WithSkipBlocked(enabled bool) Option {
	return func(o *options) error {
		o.skipBlocked = enabled
		return nil
	}
}

// WithClock sets the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "clock cannot be nil")
		}
		o.now = now
		return nil
	}
}

// WithRunID fixes the run identifier instead of generating a UUID.
func WithRunID(id string) Option {
	return func(o *options) error {
		if _, err := uuid.Parse(id); err != nil {
			return errors.NewValidationError("run_id", id, "run id must be a UUID")
		}
		o.newID = func() string { return id }
		return nil
	}
}
