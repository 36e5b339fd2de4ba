// Package push provides the push command.
package push

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carefinder/listingkit/internal/appcontext"
	"github.com/carefinder/listingkit/internal/cms"
	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/records"
)

// Row reports the outcome of one update.
type Row struct {
	ID        string `json:"ID" yaml:"ID"`
	Title     string `json:"Title" yaml:"Title"`
	Type      string `json:"Type" yaml:"Type"`
	Amenities string `json:"Amenities" yaml:"Amenities"`
	Status    string `json:"Status" yaml:"Status"`
	Error     string `json:"Error,omitempty" yaml:"Error,omitempty"`
}

// Update outcomes.
const (
	StatusUpdated = "updated"
	StatusFailed  = "failed"
	StatusDryRun  = "dry-run"
)

// NewCommand creates the push command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var dryRun bool
	var typeField string

	cmd := &cobra.Command{
		Use:     "push <file>",
		GroupID: "management",
		Short:   "Write canonical type and amenities back to the CMS",
		Long: `Push normalizes an export and writes each listing's canonical type and
cleaned amenities to the CMS through the WordPress REST API. Requests are
rate limited and retried on 429 and 5xx responses. A failing listing does
not stop the push; failures are listed and the command exits non-zero.

Credentials come from cms.url, cms.username and cms.app_password in the
config file or the CMS_URL, CMS_USERNAME and CMS_APP_PASSWORD variables.`,
		Example: `  listingkit push crm.csv --dry-run
  listingkit push crm.csv --out push-result.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(appcontext.CommandContext(cmd.Context(), app, "push"), constants.CommandTimeout)
			defer cancel()

			rs, err := app.Records(ctx, args[0])
			if err != nil {
				return err
			}
			updates := cms.BuildUpdates(records.NormalizeAll(rs, records.WithTypeField(typeField)))

			var updater cms.Updater = &cms.DryRun{}
			if !dryRun {
				if updater, err = app.Updater(); err != nil {
					return err
				}
			}

			result, err := cms.Push(ctx, updater, updates)
			if err != nil {
				return err
			}

			logging.FromContext(ctx).Info().
				Int("updated", result.Updated).
				Int("failed", len(result.Failures)).
				Bool("dry_run", dryRun).
				Msg("Push complete")

			if err := app.Output().To(cmd.OutOrStdout()).Write(Rows(updates, result, dryRun), nil); err != nil {
				return err
			}
			if n := len(result.Failures); n > 0 {
				return fmt.Errorf("%d of %d updates failed", n, len(updates))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log the updates without sending them")
	cmd.Flags().StringVar(&typeField, "type-field", constants.FieldType, "field holding the facility type")

	return cmd
}

// Rows pairs each update with its outcome.
func Rows(updates []cms.Update, result *cms.PushResult, dryRun bool) []Row {
	failed := make(map[string]error, len(result.Failures))
	for _, f := range result.Failures {
		failed[f.ID] = f.Err
	}

	rows := make([]Row, len(updates))
	for i, u := range updates {
		row := Row{
			ID:        u.ID,
			Title:     u.Title,
			Type:      u.Fields[constants.FieldType],
			Amenities: u.Fields[constants.FieldAmenities],
			Status:    StatusUpdated,
		}
		switch err, ok := failed[u.ID]; {
		case ok:
			row.Status = StatusFailed
			row.Error = err.Error()
		case dryRun:
			row.Status = StatusDryRun
		}
		rows[i] = row
	}
	return rows
}
