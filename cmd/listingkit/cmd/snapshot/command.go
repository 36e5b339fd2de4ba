// Package snapshot provides the snapshot command and its subcommands.
package snapshot

import (
	"github.com/spf13/cobra"

	"github.com/carefinder/listingkit/internal/appcontext"
	"github.com/carefinder/listingkit/internal/snapshots"
	"github.com/carefinder/listingkit/pkg/logging"
)

// NewCommand creates the snapshot command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		GroupID: "management",
		Short:   "Save and manage named exports",
		Long: `Snapshot stores an export under a name so it can be compared later.
Any command that reads an input accepts snapshot:<name> in place of a file.`,
		Example: `  listingkit snapshot save monday crm.csv
  listingkit snapshot list
  listingkit diff snapshot:monday crm.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newSaveCommand(app))
	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newDeleteCommand(app))

	return cmd
}

func newSaveCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Store an export under a name, replacing any previous one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, input := args[0], args[1]
			ctx := appcontext.CommandContext(cmd.Context(), app, "snapshot save")

			rs, err := app.Records(ctx, input)
			if err != nil {
				return err
			}
			store, err := app.Snapshots()
			if err != nil {
				return err
			}
			if err := store.Save(ctx, name, input, rs); err != nil {
				return err
			}

			logging.FromContext(ctx).Info().
				Str("snapshot", name).
				Int("records", len(rs)).
				Msg("Saved snapshot")
			return nil
		},
	}
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored snapshots, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.Snapshots()
			if err != nil {
				return err
			}
			infos, err := store.List(appcontext.CommandContext(cmd.Context(), app, "snapshot list"))
			if err != nil {
				return err
			}
			if infos == nil {
				infos = []snapshots.Info{}
			}
			return app.Output().To(cmd.OutOrStdout()).Write(infos, nil)
		},
	}
}

func newDeleteCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Snapshots()
			if err != nil {
				return err
			}
			ctx := appcontext.CommandContext(cmd.Context(), app, "snapshot delete")
			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			logging.FromContext(ctx).Info().Str("snapshot", args[0]).Msg("Deleted snapshot")
			return nil
		},
	}
}
