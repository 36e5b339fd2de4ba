// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App so they can be tested with a Mock.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carefinder/listingkit/internal/cms"
	"github.com/carefinder/listingkit/internal/config"
	"github.com/carefinder/listingkit/internal/describe"
	"github.com/carefinder/listingkit/internal/output"
	"github.com/carefinder/listingkit/internal/snapshots"
	"github.com/carefinder/listingkit/pkg/records"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// Settings returns the service settings read from config and environment.
	Settings() *config.Settings

	// Output returns where and how command results are written.
	Output() output.Target

	// Records loads a file path or "snapshot:<name>" reference.
	Records(ctx context.Context, input string) ([]records.Record, error)

	// Snapshots returns the snapshot store, opening it on first use.
	Snapshots() (*snapshots.Store, error)

	// Updater returns the CMS updater built from the cms settings.
	Updater() (cms.Updater, error)

	// Describer returns the city description generator.
	Describer(ctx context.Context) (describe.Describer, error)

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
