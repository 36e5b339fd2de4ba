package sources

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/records"
)

// ReadCSV reads a CSV file with a header row. Header names are stripped of a
// BOM and surrounding spaces. Short rows leave the missing fields absent.
func ReadCSV(r io.Reader, name string) ([]records.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return []records.Record{}, nil
	}
	if err != nil {
		return nil, csvError(name, err)
	}
	for i, h := range header {
		header[i] = records.SanitizeKey(h)
	}

	out := []records.Record{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(name, err)
		}
		if isBlank(row) {
			continue
		}
		rec := make(records.Record, len(header))
		for i, h := range header {
			if i < len(row) && h != "" {
				rec[h] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func csvError(name string, err error) error {
	pe := errors.NewParseError(string(FormatCSV), name, err.Error(), err)
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		pe.Line = perr.Line
	}
	return pe
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadJSONL reads one JSON object per line. Blank lines are skipped.
func ReadJSONL(r io.Reader, name string) ([]records.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), constants.MaxScanTokenSize)

	out := []records.Record{}
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var obj map[string]any
		if err := decodeJSON(strings.NewReader(text), &obj); err != nil {
			pe := errors.NewParseError(string(FormatJSONL), name, err.Error(), err)
			pe.Line = line
			return nil, pe
		}
		out = append(out, fromMap(obj))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	return out, nil
}

// ReadJSON reads a JSON array of objects.
func ReadJSON(r io.Reader, name string) ([]records.Record, error) {
	var objs []map[string]any
	if err := decodeJSON(r, &objs); err != nil {
		if errors.Is(err, io.EOF) {
			return []records.Record{}, nil
		}
		return nil, errors.WrapParse(string(FormatJSON), name, err)
	}
	return fromMaps(objs), nil
}

// decodeJSON decodes a single JSON value from r, keeping numbers as
// json.Number so large numeric IDs survive intact.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

// ReadYAML reads a YAML sequence of mappings.
func ReadYAML(r io.Reader, name string) ([]records.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	var objs []map[string]any
	if err := yaml.Unmarshal(data, &objs); err != nil {
		return nil, errors.WrapParse(string(FormatYAML), name, err)
	}
	return fromMaps(objs), nil
}

func fromMaps(objs []map[string]any) []records.Record {
	out := make([]records.Record, 0, len(objs))
	for _, obj := range objs {
		out = append(out, fromMap(obj))
	}
	return out
}

func fromMap(obj map[string]any) records.Record {
	rec := make(records.Record, len(obj))
	for k, v := range obj {
		rec[records.SanitizeKey(k)] = stringify(v)
	}
	return rec
}

// stringify renders a decoded value the way it would appear in a CSV export.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int, int64, uint64, int32, uint32:
		return fmt.Sprint(x)
	case json.Number:
		return x.String()
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}
