package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/carefinder/listingkit/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("snapshot", "june-export")
	assert.Equal(t, "snapshot with ID june-export not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))

	wrapped := errors.Join(errors.New("failed"), err)
	assert.True(t, pkgerrors.IsNotFound(wrapped))
}

func TestMissingFieldError(t *testing.T) {
	t.Run("with record id", func(t *testing.T) {
		err := pkgerrors.NewMissingFieldError("address", "1042")
		assert.Equal(t, `record 1042 has no field "address"`, err.Error())
		assert.True(t, pkgerrors.IsMissingField(err))
	})

	t.Run("without record id", func(t *testing.T) {
		err := pkgerrors.NewMissingFieldError("ID", "")
		assert.Equal(t, `record has no field "ID"`, err.Error())
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", pkgerrors.NewMissingFieldError("Title", "7"))
		var mf *pkgerrors.MissingFieldError
		require.True(t, errors.As(err, &mf))
		assert.Equal(t, "Title", mf.Field)
	})
}

func TestPreconditionError(t *testing.T) {
	err := pkgerrors.NewPreconditionError("match", "sourceB", "must not be nil")
	assert.Equal(t, "match: precondition failed for sourceB: must not be nil", err.Error())
	assert.True(t, pkgerrors.IsPrecondition(err))
	assert.False(t, pkgerrors.IsValidationError(err))
}

func TestRequireNonNil(t *testing.T) {
	var missing []string
	err := pkgerrors.RequireNonNil("find_duplicates", "source", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")

	assert.NoError(t, pkgerrors.RequireNonNil("find_duplicates", "source", []string{}))
}

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("cms.url", "", "is required")
	assert.Equal(t, "validation failed for field cms.url: is required", err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))

	bare := &pkgerrors.ValidationError{Message: "bad config"}
	assert.Equal(t, "validation failed: bad config", bare.Error())
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
		unavailable bool
		notFound    bool
	}{
		{name: "rate limited", status: 429, rateLimited: true},
		{name: "server error", status: 503, unavailable: true},
		{name: "missing post", status: 404, notFound: true},
		{name: "bad request", status: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("wordpress", tt.status, "boom")
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, pkgerrors.IsUnavailable(err))
			assert.Equal(t, tt.notFound, pkgerrors.IsNotFound(err))
		})
	}

	t.Run("without status", func(t *testing.T) {
		base := errors.New("connection reset")
		err := pkgerrors.WrapAPI("wordpress", 0, base)
		assert.Equal(t, "API error from wordpress: connection reset", err.Error())
		assert.ErrorIs(t, err, base)
	})
}

func TestParseError(t *testing.T) {
	withLine := &pkgerrors.ParseError{Format: "jsonl", File: "seniorly.jsonl", Line: 12, Message: "unexpected EOF"}
	assert.Equal(t, "parse error in jsonl at seniorly.jsonl:12: unexpected EOF", withLine.Error())

	withFile := pkgerrors.NewParseError("csv", "export.csv", "wrong number of fields", nil)
	assert.Equal(t, "parse error in csv file export.csv: wrong number of fields", withFile.Error())

	bare := pkgerrors.NewParseError("yaml", "", "bad indent", nil)
	assert.Equal(t, "yaml parse error: bad indent", bare.Error())
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x.csv", nil))
	assert.NoError(t, pkgerrors.WrapParse("csv", "x.csv", nil))
	assert.NoError(t, pkgerrors.WrapAPI("wordpress", 500, nil))

	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("open", "/tmp/x.csv", base)
	assert.Equal(t, "IO error during open of /tmp/x.csv: permission denied", err.Error())
	assert.ErrorIs(t, err, base)

	cfg := pkgerrors.NewConfigError("cms", "url is required", nil)
	assert.Equal(t, "configuration error in cms: url is required", cfg.Error())
}
