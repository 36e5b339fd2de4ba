// Package constants provides shared constants used throughout listingkit.
// This includes timeouts, file permissions, CMS request limits and the
// default field names of the two record sources.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for a single CMS or generator request
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands that talk to remote services
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// MaxRetries is the maximum number of retry attempts for failed CMS requests
	MaxRetries = 5

	// DefaultRatePerSecond is the default CMS request rate
	DefaultRatePerSecond = 2.0

	// BurstSize is the token bucket burst size for CMS rate limiting
	BurstSize = 1

	// MaxScanTokenSize bounds a single JSONL line (scraped descriptions can be long)
	MaxScanTokenSize = 4 * 1024 * 1024
)

// Record field names shared by the CRM export and the scraped marketplace data.
const (
	FieldID        = "ID"
	FieldTitle     = "Title"
	FieldAddress   = "address"
	FieldType      = "type"
	FieldAmenities = "amenities"
	FieldPrice     = "price"
	FieldURL       = "url"

	// FieldNormalizedTypes is the readable type column some exports carry
	FieldNormalizedTypes = "normalized_types"
)

// Path constants
const (
	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".listingkit"

	// DefaultSnapshotPath is the default SQLite snapshot database
	DefaultSnapshotPath = "~/.listingkit/snapshots.db"

	// SnapshotScheme prefixes input arguments that refer to stored snapshots
	SnapshotScheme = "snapshot:"
)

// Format constants
const (
	// TimeFormatFilename is the format used in generated report filenames
	TimeFormatFilename = "20060102_150405"
)
