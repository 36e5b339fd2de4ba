// Package diff provides the diff command.
package diff

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carefinder/listingkit/internal/appcontext"
	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/differ"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/records"
)

type flags struct {
	key           string
	field         string
	status        bool
	only          []string
	uncategorized bool
	decode        bool
}

// NewCommand creates the diff command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:     "diff <before> <after>",
		GroupID: "core",
		Short:   "Report field changes between two exports",
		Long: `Diff joins two exports of the same listings on a key column and reports
every record whose field changed. By default it compares the facility type
on the ID column and prints ID, Title, Old Type and New Type.

With --status every key of either side is classified as ADDED, REMOVED,
CHANGED or UNCHANGED instead.`,
		Example: `  listingkit diff before.csv after.csv
  listingkit diff snapshot:monday after.csv --uncategorized --out uncategorized.xlsx
  listingkit diff before.csv after.csv --status --only added,removed
  listingkit diff before.csv after.csv --field amenities`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := appcontext.CommandContext(cmd.Context(), app, "diff")
			before, err := app.Records(logging.WithSource(ctx, "before"), args[0])
			if err != nil {
				return err
			}
			after, err := app.Records(logging.WithSource(ctx, "after"), args[1])
			if err != nil {
				return err
			}

			if f.status {
				return runStatus(ctx, cmd, app, f, before, after)
			}
			return runChanges(ctx, cmd, app, f, before, after)
		},
	}

	cmd.Flags().StringVar(&f.key, "key", constants.FieldID, "column joining the two exports")
	cmd.Flags().StringVar(&f.field, "field", constants.FieldType, "column to compare")
	cmd.Flags().BoolVar(&f.status, "status", false, "classify every key as ADDED, REMOVED, CHANGED or UNCHANGED")
	cmd.Flags().StringSliceVar(&f.only, "only", nil, "with --status, keep only these statuses")
	cmd.Flags().BoolVar(&f.uncategorized, "uncategorized", false, "keep only type changes whose new type is Uncategorized")
	cmd.Flags().BoolVar(&f.decode, "decode", false, "compare decoded type sets instead of raw text")

	return cmd
}

func (f *flags) differ() differ.Differ {
	var opts []differ.Option
	if f.decode {
		opts = append(opts, differ.WithTypeDecoding())
	}
	return differ.New(opts...)
}

func isTypeField(field string) bool {
	return strings.EqualFold(strings.TrimSpace(field), constants.FieldType)
}

func runChanges(ctx context.Context, cmd *cobra.Command, app appcontext.Interface, f *flags, before, after []records.Record) error {
	logger := logging.FromContext(ctx)

	changes, err := f.differ().ByKey(before, after, f.key, f.field)
	if err != nil {
		return err
	}
	if f.uncategorized {
		if !isTypeField(f.field) {
			return errors.NewValidationError("uncategorized", f.field, "--uncategorized only applies to the type field")
		}
		changes = differ.Uncategorized(changes)
	}
	if changes == nil {
		changes = []differ.ChangeRecord{}
	}

	logger.Info().
		Int("before", len(before)).
		Int("after", len(after)).
		Int("changes", len(changes)).
		Str("field", f.field).
		Msg("Compared exports")

	out := app.Output().To(cmd.OutOrStdout())
	if isTypeField(f.field) {
		return out.Write(differ.TypeChangeRows(changes), nil)
	}
	return out.Write(changes, nil)
}

func runStatus(ctx context.Context, cmd *cobra.Command, app appcontext.Interface, f *flags, before, after []records.Record) error {
	rows, summary, err := f.differ().Statuses(before, after, f.key, f.field)
	if err != nil {
		return err
	}

	if len(f.only) > 0 {
		statuses := make([]differ.Status, 0, len(f.only))
		for _, s := range f.only {
			st, ok := differ.ParseStatus(s)
			if !ok {
				return errors.NewValidationError("only", s, fmt.Sprintf("unknown status %q (want added, removed, changed or unchanged)", s))
			}
			statuses = append(statuses, st)
		}
		rows = differ.FilterStatus(rows, statuses...)
	}
	if rows == nil {
		rows = []differ.StatusRow{}
	}

	logging.FromContext(ctx).Info().
		Int("added", summary.Added).
		Int("removed", summary.Removed).
		Int("changed", summary.Changed).
		Int("unchanged", summary.Unchanged).
		Msg(summary.String())

	return app.Output().To(cmd.OutOrStdout()).Write(rows, nil)
}
