// Package match provides the match command.
package match

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carefinder/listingkit/internal/appcontext"
	"github.com/carefinder/listingkit/internal/output"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/matching"
	"github.com/carefinder/listingkit/pkg/reconciler"
)

// Result is the structured output of a full match run.
type Result struct {
	Report  *reconciler.Report    `json:"report" yaml:"report"`
	Matches []reconciler.MatchRow `json:"matches" yaml:"matches"`
}

// NewCommand creates the match command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var unmatched, collisions, skipBlocked bool

	cmd := &cobra.Command{
		Use:     "match <crm-file> <marketplace-file>",
		GroupID: "core",
		Short:   "Match CRM records to marketplace listings by address",
		Long: `Match pairs every CRM record with the marketplace listing at the same
normalized address. Records whose address has no marketplace counterpart
are reported as unmatched; marketplace listings sharing one normalized
address are reported as collisions.`,
		Example: `  listingkit match crm.csv marketplace.jsonl
  listingkit match crm.csv marketplace.jsonl --unmatched --out unmatched.xlsx
  listingkit match crm.csv marketplace.jsonl --collisions --skip-blocked`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if unmatched && collisions {
				return fmt.Errorf("--unmatched and --collisions cannot be combined")
			}

			ctx := appcontext.CommandContext(cmd.Context(), app, "match")
			crm, err := app.Records(logging.WithSource(ctx, "crm"), args[0])
			if err != nil {
				return err
			}
			market, err := app.Records(logging.WithSource(ctx, "marketplace"), args[1])
			if err != nil {
				return err
			}

			r, err := reconciler.New(reconciler.WithSkipBlocked(skipBlocked))
			if err != nil {
				return err
			}
			report, err := r.Run(ctx, reconciler.Input{CRM: crm, Marketplace: market})
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Info().Msg(report.String())

			out := app.Output().To(cmd.OutOrStdout())
			switch {
			case unmatched:
				return out.Write(reconciler.Rows(report.Unmatched), nil)
			case collisions:
				return out.Write(matching.GroupRows(report.Collisions), nil)
			default:
				rows := reconciler.Rows(matchedOnly(report.Matches))
				table, _ := output.ToData(rows)
				return out.Write(Result{Report: report, Matches: rows}, &table)
			}
		},
	}

	cmd.Flags().BoolVar(&unmatched, "unmatched", false, "list CRM records without a marketplace match")
	cmd.Flags().BoolVar(&collisions, "collisions", false, "list marketplace listings sharing an address")
	cmd.Flags().BoolVar(&skipBlocked, "skip-blocked", false, "ignore records whose title carries an operational note")

	return cmd
}

func matchedOnly(results []matching.Result) []matching.Result {
	out := make([]matching.Result, 0, len(results))
	for _, r := range results {
		if r.Matched() {
			out = append(out, r)
		}
	}
	return out
}
