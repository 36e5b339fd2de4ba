// Package normalize provides the normalize command.
package normalize

import (
	"github.com/spf13/cobra"

	"github.com/carefinder/listingkit/internal/appcontext"
	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/records"
)

// Row is one normalized record as printed by the command.
type Row struct {
	ID            string `json:"ID" yaml:"ID"`
	Title         string `json:"Title" yaml:"Title"`
	CleanTitle    string `json:"Clean Title" yaml:"Clean Title"`
	CanonicalType string `json:"Canonical Type" yaml:"Canonical Type"`
	Amenities     string `json:"Amenities" yaml:"Amenities"`
	AddressKey    string `json:"Address Key" yaml:"Address Key"`
	StrictKey     string `json:"Strict Key" yaml:"Strict Key"`
}

// Rows flattens normalized records.
func Rows(ns []records.Normalized) []Row {
	out := make([]Row, len(ns))
	for i, n := range ns {
		out[i] = Row{
			ID:            n.ID(),
			Title:         n.Title(),
			CleanTitle:    n.CleanTitle,
			CanonicalType: n.CanonicalType.String(),
			Amenities:     n.Amenities(),
			AddressKey:    n.NormalizedAddress,
			StrictKey:     n.StrictAddress,
		}
	}
	return out
}

// NewCommand creates the normalize command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var typeField, amenitiesField, addressField string

	cmd := &cobra.Command{
		Use:     "normalize <file>",
		GroupID: "core",
		Short:   "Print canonical type, amenities and address keys",
		Long: `Normalize reads a listing export and prints, for every record, the
canonical facility type set, the cleaned amenity list, the normalized
address key used for matching and the strict key used for duplicates.`,
		Example: `  listingkit normalize crm.csv
  listingkit normalize marketplace.jsonl -o json
  listingkit normalize snapshot:before --type-field normalized_types`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := appcontext.CommandContext(cmd.Context(), app, "normalize")
			rs, err := app.Records(ctx, args[0])
			if err != nil {
				return err
			}

			ns := records.NormalizeAll(rs,
				records.WithTypeField(typeField),
				records.WithAmenitiesField(amenitiesField),
				records.WithAddressField(addressField),
			)
			logging.FromContext(ctx).Info().Int("records", len(ns)).Msg("Normalized records")

			return app.Output().To(cmd.OutOrStdout()).Write(Rows(ns), nil)
		},
	}

	cmd.Flags().StringVar(&typeField, "type-field", constants.FieldType, "field holding the facility type")
	cmd.Flags().StringVar(&amenitiesField, "amenities-field", constants.FieldAmenities, "field holding the amenity list")
	cmd.Flags().StringVar(&addressField, "address-field", constants.FieldAddress, "field holding the street address")

	return cmd
}
