// Package reconciler runs the full listing reconciliation: it joins the CRM
// export with the marketplace dataset by normalized address and reports
// duplicates and key collisions inside each source.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/matching"
	"github.com/carefinder/listingkit/pkg/records"
)

// Input holds the two record collections to reconcile.
type Input struct {
	// CRM is the export side (source A).
	CRM []records.Record
	// Marketplace is the scraped side (source B).
	Marketplace []records.Record
}

// Reconciler is the main interface for reconciling the two listing sources.
type Reconciler interface {
	Run(ctx context.Context, in Input) (*Report, error)
}

type reconciler struct {
	skipBlocked bool
	now         func() time.Time
	newID       func() string
}

// New creates a Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		skipBlocked: o.skipBlocked,
		now:         o.now,
		newID:       o.newID,
	}, nil
}

// runContext holds shared state for one run.
type runContext struct {
	logger    *zerolog.Logger
	report    *Report
	crm       []records.Record
	market    []records.Record
	startTime time.Time
}

// Run reconciles in. The work is synchronous; ctx is checked between stages.
func (r *reconciler) Run(ctx context.Context, in Input) (*Report, error) {
	// Step 1: validate input and prepare the run
	rctx, err := r.initialize(ctx, in)
	if err != nil {
		return nil, err
	}

	// Step 2: cross-source join
	if err := checkCanceled(ctx, "match"); err != nil {
		return nil, err
	}
	if err := r.match(rctx); err != nil {
		return nil, err
	}

	// Step 3: duplicates inside each source
	if err := checkCanceled(ctx, "duplicates"); err != nil {
		return nil, err
	}
	if err := r.duplicates(rctx); err != nil {
		return nil, err
	}

	// Step 4: finalize metadata
	return r.finish(rctx), nil
}

func (r *reconciler) initialize(ctx context.Context, in Input) (*runContext, error) {
	if err := errors.RequireNonNil("reconcile", "crm", in.CRM); err != nil {
		return nil, err
	}
	if err := errors.RequireNonNil("reconcile", "marketplace", in.Marketplace); err != nil {
		return nil, err
	}

	runID := r.newID()
	ctx = logging.WithRun(ctx, runID)
	logger := logging.FromContext(ctx)

	crm, market := in.CRM, in.Marketplace
	skipped := 0
	if r.skipBlocked {
		crm = matching.ExcludeBlockedTitles(crm)
		market = matching.ExcludeBlockedTitles(market)
		skipped = len(in.CRM) - len(crm) + len(in.Marketplace) - len(market)
		logger.Debug().
			Int("skipped", skipped).
			Msg("Excluded records with blocked titles")
	}

	start := r.now()
	logger.Info().
		Int("crm_count", len(crm)).
		Int("marketplace_count", len(market)).
		Msg("Starting reconciliation")

	return &runContext{
		logger: logger,
		report: &Report{
			RunID: runID,
			Metadata: Metadata{
				StartTime:        start,
				CRMCount:         len(crm),
				MarketplaceCount: len(market),
				Skipped:          skipped,
			},
		},
		crm:       crm,
		market:    market,
		startTime: start,
	}, nil
}

func (r *reconciler) match(rctx *runContext) error {
	results, err := matching.Match(rctx.crm, rctx.market)
	if err != nil {
		return err
	}
	rctx.report.Matches = results
	rctx.report.Unmatched = matching.Unmatched(results)
	rctx.report.Collisions = matching.Collisions(rctx.market)
	rctx.report.Summary = matching.Summarize(results)

	rctx.logger.Info().
		Int("matched", rctx.report.Summary.Matched).
		Int("unmatched", rctx.report.Summary.Unmatched).
		Int("collisions", len(rctx.report.Collisions)).
		Msg("Matched CRM records against marketplace")
	return nil
}

func (r *reconciler) duplicates(rctx *runContext) error {
	crm, err := matching.FindDuplicates(rctx.crm)
	if err != nil {
		return err
	}
	market, err := matching.FindDuplicates(rctx.market)
	if err != nil {
		return err
	}
	rctx.report.DuplicatesCRM = crm
	rctx.report.DuplicatesMarketplace = market

	rctx.logger.Debug().
		Int("crm_groups", len(crm)).
		Int("marketplace_groups", len(market)).
		Msg("Found duplicate groups")
	return nil
}

func (r *reconciler) finish(rctx *runContext) *Report {
	end := r.now()
	rctx.report.Metadata.EndTime = end
	rctx.report.Metadata.Duration = end.Sub(rctx.startTime)

	rctx.logger.Info().
		Dur("duration", rctx.report.Metadata.Duration).
		Msg("Reconciliation complete")
	return rctx.report
}

func checkCanceled(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w before %s: %w", errors.ErrCanceled, stage, err)
	}
	return nil
}
