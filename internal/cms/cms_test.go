package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinder/listingkit/internal/transport"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/records"
)

func TestBuildUpdates(t *testing.T) {
	ns := records.NormalizeAll([]records.Record{
		records.New("ID", "12", "Title", "Oak", "type", "a:1:{i:0;i:3;}", "amenities", "Pool; About the Chef"),
		records.New("Title", "No ID"),
	})

	ups := BuildUpdates(ns)
	require.Len(t, ups, 1)
	assert.Equal(t, Update{
		ID:     "12",
		Title:  "Oak",
		Fields: map[string]string{"type": "Memory Care", "amenities": "Pool"},
	}, ups[0])
}

func TestBuildUpdatesMissingAmenities(t *testing.T) {
	ns := records.NormalizeAll([]records.Record{
		records.New("ID", "7", "Title", "Oak", "type", "Memory Care"),
		records.New("ID", "8", "Title", "Elm", "type", "Memory Care", "amenities", ""),
	})

	ups := BuildUpdates(ns)
	require.Len(t, ups, 2)
	assert.Equal(t, map[string]string{"type": "Memory Care"}, ups[0].Fields)
	assert.Equal(t, map[string]string{"type": "Memory Care", "amenities": ""}, ups[1].Fields)

	d := &DryRun{}
	res, err := Push(context.Background(), d, ups[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, d.Updates, 1)
	_, present := d.Updates[0].Fields["amenities"]
	assert.False(t, present)
}

type failingUpdater struct {
	fail map[string]bool
	seen []string
}

func (f *failingUpdater) Update(_ context.Context, u Update) error {
	f.seen = append(f.seen, u.ID)
	if f.fail[u.ID] {
		return errors.NewAPIError("test", http.StatusInternalServerError, "boom")
	}
	return nil
}

func TestPushContinuesOnFailure(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	u := &failingUpdater{fail: map[string]bool{"2": true}}
	res, err := Push(ctx, u, []Update{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "2", res.Failures[0].ID)
	assert.Equal(t, []string{"1", "2", "3"}, u.seen)
	tl.AssertContains(t, "Failed to update listing")
}

func TestPushCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := &failingUpdater{}
	_, err := Push(ctx, u, []Update{{ID: "1"}})
	require.Error(t, err)
	assert.Empty(t, u.seen)
}

func TestDryRun(t *testing.T) {
	d := &DryRun{}
	res, err := Push(context.Background(), d, []Update{{ID: "1", Fields: map[string]string{"type": "Memory Care"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Len(t, d.Updates, 1)
}

func fastTransport() transport.Options {
	return transport.Options{
		MaxRetries:   2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
		Timeout:      5 * time.Second,
	}
}

func TestWordPressUpdate(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wp-json/wp/v2/listing/42", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "editor", user)
		assert.Equal(t, "app pass", pass)

		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		var body struct {
			ACF map[string]string `json:"acf"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Memory Care", body.ACF["type"])
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer srv.Close()

	wp, err := NewWordPress(WordPressConfig{
		BaseURL:     srv.URL + "/",
		Username:    "editor",
		AppPassword: "app pass",
		Transport:   fastTransport(),
	})
	require.NoError(t, err)

	err = wp.Update(context.Background(), Update{ID: "42", Fields: map[string]string{"type": "Memory Care"}})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestWordPressUpdateErrors(t *testing.T) {
	_, err := NewWordPress(WordPressConfig{BaseURL: "not a url"})
	assert.True(t, errors.IsValidationError(err))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	wp, err := NewWordPress(WordPressConfig{BaseURL: srv.URL, Transport: fastTransport()})
	require.NoError(t, err)

	err = wp.Update(context.Background(), Update{ID: "abc"})
	assert.True(t, errors.IsValidationError(err))

	err = wp.Update(context.Background(), Update{ID: "7"})
	assert.True(t, errors.IsNotFound(err))
}
