// Package sources loads listing records from files and stored snapshots.
//
// Supported inputs are CSV, JSON lines, JSON arrays and YAML lists. Every
// value is read as a string; numbers, booleans and nested values from JSON
// and YAML are stringified.
package sources

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/records"
)

// Format identifies an input encoding.
type Format string

// Supported formats.
const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.NewValidationError("path", path, "unsupported input format (want .csv, .jsonl, .ndjson, .json, .yaml or .yml)")
	}
}

// SnapshotLoader returns the records of a stored snapshot.
type SnapshotLoader interface {
	Load(ctx context.Context, name string) ([]records.Record, error)
}

// Loader resolves input arguments to records.
type Loader struct {
	snapshots SnapshotLoader
}

// NewLoader creates a Loader. snapshots may be nil when snapshot inputs are
// not needed.
func NewLoader(snapshots SnapshotLoader) *Loader {
	return &Loader{snapshots: snapshots}
}

// Load reads a file path or a "snapshot:<name>" reference.
func (l *Loader) Load(ctx context.Context, input string) ([]records.Record, error) {
	logger := logging.FromContext(ctx)

	if name, ok := strings.CutPrefix(input, constants.SnapshotScheme); ok {
		if l.snapshots == nil {
			return nil, errors.NewConfigError("snapshots", "snapshot store not configured", nil)
		}
		rs, err := l.snapshots.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("snapshot", name).Int("records", len(rs)).Msg("Loaded snapshot")
		return rs, nil
	}

	rs, err := ReadFile(input)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("path", input).Int("records", len(rs)).Msg("Loaded records")
	return rs, nil
}

// ReadFile reads records from path, choosing the decoder by extension.
func ReadFile(path string) ([]records.Record, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	switch format {
	case FormatCSV:
		return ReadCSV(f, path)
	case FormatJSONL:
		return ReadJSONL(f, path)
	case FormatJSON:
		return ReadJSON(f, path)
	default:
		return ReadYAML(f, path)
	}
}
