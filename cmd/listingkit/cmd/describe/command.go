// Package describe provides the describe command.
package describe

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/carefinder/listingkit/internal/appcontext"
	"github.com/carefinder/listingkit/internal/describe"
	"github.com/carefinder/listingkit/pkg/constants"
)

// NewCommand creates the describe command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var state string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:     "describe <city>...",
		GroupID: "management",
		Short:   "Generate senior living descriptions for cities",
		Long: `Describe asks the Gemini API for a short description of senior living in
each city. Requests are spaced by --interval. A failed city is reported in
the Error column and does not stop the batch.

The API key is read from GOOGLE_API_KEY (or GEMINI_API_KEY).`,
		Example: `  listingkit describe Phoenix Tempe Mesa --state Arizona
  listingkit describe Tucson --state AZ -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(appcontext.CommandContext(cmd.Context(), app, "describe"), constants.CommandTimeout)
			defer cancel()

			d, err := app.Describer(ctx)
			if err != nil {
				return err
			}
			descriptions, err := describe.All(ctx, d, state, args, interval)
			if err != nil {
				return err
			}
			return app.Output().To(cmd.OutOrStdout()).Write(descriptions, nil)
		},
	}

	cmd.Flags().StringVar(&state, "state", "Arizona", "state the cities are in")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "minimum time between requests")

	return cmd
}
