package appcontext

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"

	"github.com/carefinder/listingkit/internal/cms"
	"github.com/carefinder/listingkit/internal/config"
	"github.com/carefinder/listingkit/internal/describe"
	"github.com/carefinder/listingkit/internal/output"
	"github.com/carefinder/listingkit/internal/snapshots"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/records"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	LoggerFunc    func() *zerolog.Logger
	SettingsFunc  func() *config.Settings
	OutputFunc    func() output.Target
	RecordsFunc   func(ctx context.Context, input string) ([]records.Record, error)
	SnapshotsFunc func() (*snapshots.Store, error)
	UpdaterFunc   func() (cms.Updater, error)
	DescriberFunc func(ctx context.Context) (describe.Describer, error)
	VersionFunc   func() string
	CommitFunc    func() string
	DateFunc      func() string
	BuiltByFunc   func() string

	// Inputs maps input arguments to records when RecordsFunc is nil.
	Inputs map[string][]records.Record
	// Format is used by Output when OutputFunc is nil.
	Format output.Format
	// Logs receives log output when LoggerFunc is nil.
	Logs bytes.Buffer
}

var _ Interface = (*Mock)(nil)

// Logger returns a logger writing to m.Logs.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.New(&m.Logs)
	return &logger
}

// Settings returns settings using the mock function or empty settings.
func (m *Mock) Settings() *config.Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return &config.Settings{}
}

// Output returns a target using the mock function or m.Format.
func (m *Mock) Output() output.Target {
	if m.OutputFunc != nil {
		return m.OutputFunc()
	}
	format := m.Format
	if format == "" {
		format = output.FormatJSON
	}
	return output.Target{Format: format}
}

// Records returns records using the mock function or m.Inputs.
func (m *Mock) Records(ctx context.Context, input string) ([]records.Record, error) {
	if m.RecordsFunc != nil {
		return m.RecordsFunc(ctx, input)
	}
	rs, ok := m.Inputs[input]
	if !ok {
		return nil, errors.NewNotFoundError("input", input)
	}
	return rs, nil
}

// Snapshots returns a store using the mock function or a config error.
func (m *Mock) Snapshots() (*snapshots.Store, error) {
	if m.SnapshotsFunc != nil {
		return m.SnapshotsFunc()
	}
	return nil, errors.NewConfigError("snapshots", "not configured in mock", nil)
}

// Updater returns an updater using the mock function or a config error.
func (m *Mock) Updater() (cms.Updater, error) {
	if m.UpdaterFunc != nil {
		return m.UpdaterFunc()
	}
	return nil, errors.NewConfigError("cms", "not configured in mock", nil)
}

// Describer returns a describer using the mock function or a config error.
func (m *Mock) Describer(ctx context.Context) (describe.Describer, error) {
	if m.DescriberFunc != nil {
		return m.DescriberFunc(ctx)
	}
	return nil, errors.NewConfigError("describe", "not configured in mock", nil)
}

// Version returns a version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns a commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns a date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns a builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
