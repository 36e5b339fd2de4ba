package sources

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/records"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"a.csv":    FormatCSV,
		"a.CSV":    FormatCSV,
		"a.jsonl":  FormatJSONL,
		"a.ndjson": FormatJSONL,
		"a.json":   FormatJSON,
		"a.yaml":   FormatYAML,
		"a.yml":    FormatYAML,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := DetectFormat("a.txt")
	assert.True(t, errors.IsValidationError(err))
}

func TestReadCSV(t *testing.T) {
	in := "\ufeffID, Title ,address,type\n" +
		"1,Oak House,\"100 Oak Dr, Apt 2\",a:1:{i:0;i:3;}\n" +
		",,,\n" +
		"2,Pine\n"

	rs, err := ReadCSV(strings.NewReader(in), "in.csv")
	require.NoError(t, err)
	require.Len(t, rs, 2)

	assert.Equal(t, "1", rs[0].ID())
	assert.Equal(t, "Oak House", rs[0].Title())
	assert.Equal(t, "100 Oak Dr, Apt 2", rs[0].Address())
	assert.Equal(t, "a:1:{i:0;i:3;}", rs[0].Value("type"))

	assert.Equal(t, "Pine", rs[1].Title())
	assert.False(t, rs[1].Has("address"), "short rows leave fields absent")
}

func TestReadCSVEmpty(t *testing.T) {
	rs, err := ReadCSV(strings.NewReader(""), "empty.csv")
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestReadJSONL(t *testing.T) {
	in := `{"title":"Oak","address":"100 Oak Drive","price":3500,"verified":true,"tags":["a","b"],"note":null}

{"title":"Pine","price":1234.5}
`
	rs, err := ReadJSONL(strings.NewReader(in), "in.jsonl")
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, records.Record{
		"title":    "Oak",
		"address":  "100 Oak Drive",
		"price":    "3500",
		"verified": "true",
		"tags":     `["a","b"]`,
		"note":     "",
	}, rs[0])
	assert.Equal(t, "1234.5", rs[1].Value("price"))
}

func TestReadJSONLargeIDs(t *testing.T) {
	rs, err := ReadJSONL(strings.NewReader(`{"ID":9007199254740993,"price":3500.50,"meta":{"rank":12345678901234567}}`+"\n"), "ids.jsonl")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "9007199254740993", rs[0].ID())
	assert.Equal(t, "3500.50", rs[0].Value("price"))
	assert.Equal(t, `{"rank":12345678901234567}`, rs[0].Value("meta"))

	rs, err = ReadJSON(strings.NewReader(`[{"ID":18014398509481985}]`), "ids.json")
	require.NoError(t, err)
	assert.Equal(t, "18014398509481985", rs[0].ID())
}

func TestReadJSONLTrailingData(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader(`{"a":1} {"b":2}`+"\n"), "two.jsonl")
	var pe *errors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
}

func TestReadJSONLError(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{\"a\":1}\n{broken\n"), "bad.jsonl")
	require.Error(t, err)

	var pe *errors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "bad.jsonl", pe.File)
}

func TestReadJSON(t *testing.T) {
	rs, err := ReadJSON(strings.NewReader(`[{"ID":7,"Title":"Elm"}]`), "in.json")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "7", rs[0].ID())

	_, err = ReadJSON(strings.NewReader(`{"ID":7}`), "obj.json")
	require.Error(t, err)
}

func TestReadYAML(t *testing.T) {
	in := `
- ID: 1
  Title: Oak House
  address: 100 Oak Dr
- ID: 2
  Title: Pine
  amenities: Pool; Garden
`
	rs, err := ReadYAML(strings.NewReader(in), "in.yaml")
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "1", rs[0].ID())
	assert.Equal(t, "100 Oak Dr", rs[0].Address())
	assert.Equal(t, "Pool; Garden", rs[1].Value("amenities"))
}

func TestReadFile(t *testing.T) {
	path := writeFile(t, "crm.csv", "ID,Title\n1,Oak\n")
	rs, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rs, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

type memSnapshots map[string][]records.Record

func (m memSnapshots) Load(_ context.Context, name string) ([]records.Record, error) {
	rs, ok := m[name]
	if !ok {
		return nil, errors.NewNotFoundError("snapshot", name)
	}
	return rs, nil
}

func TestLoader(t *testing.T) {
	store := memSnapshots{"before": {records.New("ID", "1")}}
	l := NewLoader(store)

	rs, err := l.Load(context.Background(), "snapshot:before")
	require.NoError(t, err)
	assert.Len(t, rs, 1)

	_, err = l.Load(context.Background(), "snapshot:missing")
	assert.True(t, errors.IsNotFound(err))

	path := writeFile(t, "m.jsonl", `{"title":"Oak"}`+"\n")
	rs, err = l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Oak", rs[0].Title())

	_, err = NewLoader(nil).Load(context.Background(), "snapshot:before")
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
