// Package dupes provides the dupes command.
package dupes

import (
	"github.com/spf13/cobra"

	"github.com/carefinder/listingkit/internal/appcontext"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/matching"
)

// NewCommand creates the dupes command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var skipBlocked bool

	cmd := &cobra.Command{
		Use:     "dupes <file>",
		GroupID: "core",
		Short:   "Find records sharing a title or a strict address",
		Long: `Dupes groups the records of one export that share an identical title or
the same strict address key. Groups are reported for review; nothing is
merged or removed.`,
		Example: `  listingkit dupes crm.csv
  listingkit dupes crm.csv --skip-blocked --out dupes.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := appcontext.CommandContext(cmd.Context(), app, "dupes")
			rs, err := app.Records(ctx, args[0])
			if err != nil {
				return err
			}
			if skipBlocked {
				before := len(rs)
				rs = matching.ExcludeBlockedTitles(rs)
				logging.FromContext(ctx).Debug().Int("skipped", before-len(rs)).Msg("Skipped blocked titles")
			}

			groups, err := matching.FindDuplicates(rs)
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Info().
				Int("records", len(rs)).
				Int("groups", len(groups)).
				Msg("Found duplicate groups")

			return app.Output().To(cmd.OutOrStdout()).Write(matching.GroupRows(groups), nil)
		},
	}

	cmd.Flags().BoolVar(&skipBlocked, "skip-blocked", false, "ignore records whose title carries an operational note")

	return cmd
}
