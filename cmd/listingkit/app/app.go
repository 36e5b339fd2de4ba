// Package app provides the application context and dependency management
// for the listingkit CLI. It centralizes configuration, logging and the
// lazily created service clients (snapshot store, CMS, description model).
package app

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/carefinder/listingkit/internal/appcontext"
	"github.com/carefinder/listingkit/internal/cms"
	"github.com/carefinder/listingkit/internal/config"
	"github.com/carefinder/listingkit/internal/describe"
	"github.com/carefinder/listingkit/internal/output"
	"github.com/carefinder/listingkit/internal/snapshots"
	"github.com/carefinder/listingkit/internal/sources"
	"github.com/carefinder/listingkit/internal/transport"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/records"
)

// App represents the listingkit application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Service clients (lazy-initialized, singletons)
	mu        sync.Mutex
	store     *snapshots.Store
	updater   cms.Updater
	describer describe.Describer
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment and the
// default config file; functional options override it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Settings returns the service settings.
func (a *App) Settings() *config.Settings {
	return a.config.Settings
}

// Output returns the output target from --format and --out.
func (a *App) Output() output.Target {
	return output.Target{
		Format: output.Format(a.config.Format),
		Path:   a.config.Out,
	}.Resolve()
}

// Records loads an input argument. The snapshot store is only opened when
// the input is a snapshot reference.
func (a *App) Records(ctx context.Context, input string) ([]records.Record, error) {
	return sources.NewLoader(lazySnapshots{app: a}).Load(ctx, input)
}

type lazySnapshots struct {
	app *App
}

func (l lazySnapshots) Load(ctx context.Context, name string) ([]records.Record, error) {
	store, err := l.app.Snapshots()
	if err != nil {
		return nil, err
	}
	return store.Load(ctx, name)
}

// Snapshots returns the snapshot store, opening it on first use.
func (a *App) Snapshots() (*snapshots.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store, nil
	}
	if err := a.config.Settings.ValidateSnapshots(); err != nil {
		return nil, err
	}
	store, err := snapshots.Open(a.config.Settings.Snapshots.Path)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// Updater returns the WordPress updater built from the cms settings.
func (a *App) Updater() (cms.Updater, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.updater != nil {
		return a.updater, nil
	}
	settings := a.config.Settings
	if err := settings.ValidateCMS(); err != nil {
		return nil, err
	}

	opts := transport.DefaultOptions()
	opts.RatePerSecond = settings.CMS.RatePerSecond
	opts.Logger = a.logger
	wp, err := cms.NewWordPress(cms.WordPressConfig{
		BaseURL:     settings.CMS.URL,
		PostType:    settings.CMS.PostType,
		Username:    settings.CMS.Username,
		AppPassword: settings.CMS.AppPassword,
		Transport:   opts,
	})
	if err != nil {
		return nil, err
	}
	a.updater = wp
	return wp, nil
}

// Describer returns the Gemini describer, creating it on first use.
func (a *App) Describer(ctx context.Context) (describe.Describer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.describer != nil {
		return a.describer, nil
	}
	settings := a.config.Settings
	if err := settings.ValidateDescribe(); err != nil {
		return nil, err
	}
	d, err := describe.NewGemini(ctx, settings.Describe.APIKey, settings.Describe.Model)
	if err != nil {
		return nil, err
	}
	a.describer = d
	return d, nil
}

// Shutdown releases resources held by the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	store := a.store
	a.store = nil
	a.mu.Unlock()

	if store == nil {
		return nil
	}
	if err := store.Close(); err != nil {
		return errors.WrapIO("close", a.config.Settings.Snapshots.Path, err)
	}
	return nil
}

// ContextWithSignals creates a context that is cancelled on SIGINT or SIGTERM.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		if cfg == nil {
			return errors.NewValidationError("config", nil, "must not be nil")
		}
		if cfg.Settings == nil {
			cfg.Settings = &config.Settings{}
		}
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSnapshots sets the snapshot store (useful for testing).
func WithSnapshots(store *snapshots.Store) Option {
	return func(a *App) error {
		a.store = store
		return nil
	}
}

// WithUpdater sets the CMS updater (useful for testing).
func WithUpdater(u cms.Updater) Option {
	return func(a *App) error {
		a.updater = u
		return nil
	}
}

// WithDescriber sets the description generator (useful for testing).
func WithDescriber(d describe.Describer) Option {
	return func(a *App) error {
		a.describer = d
		return nil
	}
}
