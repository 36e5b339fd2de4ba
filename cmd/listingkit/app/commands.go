package app

import (
	"github.com/spf13/cobra"

	"github.com/carefinder/listingkit/cmd/listingkit/cmd/describe"
	"github.com/carefinder/listingkit/cmd/listingkit/cmd/diff"
	"github.com/carefinder/listingkit/cmd/listingkit/cmd/dupes"
	"github.com/carefinder/listingkit/cmd/listingkit/cmd/match"
	"github.com/carefinder/listingkit/cmd/listingkit/cmd/normalize"
	"github.com/carefinder/listingkit/cmd/listingkit/cmd/push"
	"github.com/carefinder/listingkit/cmd/listingkit/cmd/snapshot"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(normalize.NewCommand(a))
	rootCmd.AddCommand(match.NewCommand(a))
	rootCmd.AddCommand(dupes.NewCommand(a))
	rootCmd.AddCommand(diff.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(snapshot.NewCommand(a))
	rootCmd.AddCommand(push.NewCommand(a))
	rootCmd.AddCommand(describe.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("listingkit %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
