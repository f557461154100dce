package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/buger/jsonparser"
)

// table is a header-addressed grid of string cells, whatever the origin.
type table struct {
	header map[string]int
	rows   [][]string
}

// newTable indexes columns by normalized name. The first occurrence of a
// duplicate column wins.
func newTable(columns []string) *table {
	t := &table{header: make(map[string]int, len(columns))}
	for i, c := range columns {
		key := normalizeColumn(c)
		if _, dup := t.header[key]; !dup {
			t.header[key] = i
		}
	}
	return t
}

// normalizeColumn folds "createdOn", "created_on" and "Created On" together.
func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// has reports whether any alias is a column of t.
func (t *table) has(aliases []string) bool {
	_, ok := t.column(aliases)
	return ok
}

func (t *table) column(aliases []string) (int, bool) {
	for _, a := range aliases {
		if i, ok := t.header[a]; ok {
			return i, true
		}
	}
	return 0, false
}

// get returns the trimmed cell of row under the first matching alias.
// Short rows read as empty cells.
func (t *table) get(row []string, aliases []string) string {
	i, ok := t.column(aliases)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// require checks that every group has at least one alias present.
func (t *table) require(groups ...[]string) error {
	for _, g := range groups {
		if !t.has(g) {
			return fmt.Errorf("missing required column %q", g[0])
		}
	}
	return nil
}

// readTable loads a .json file as an array of objects, anything else as CSV.
func readTable(path string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSONTable(data)
	}
	return parseCSVTable(data)
}

func parseCSVTable(data []byte) (*table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	t := newTable(header)

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// parseJSONTable flattens an array of flat objects into a table. Nested
// objects and arrays are kept as raw JSON text in their cell.
func parseJSONTable(data []byte) (*table, error) {
	var columns []string
	seen := make(map[string]int)
	var objects []map[string]string

	var objErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if objErr != nil {
			return
		}
		if dataType != jsonparser.Object {
			objErr = fmt.Errorf("expected array of objects, found %s", dataType)
			return
		}
		obj := make(map[string]string)
		objErr = jsonparser.ObjectEach(value, func(key, val []byte, vt jsonparser.ValueType, _ int) error {
			name := string(key)
			if _, ok := seen[name]; !ok {
				seen[name] = len(columns)
				columns = append(columns, name)
			}
			obj[name] = cellText(val, vt)
			return nil
		})
		objects = append(objects, obj)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	if objErr != nil {
		return nil, objErr
	}

	t := newTable(columns)
	for _, obj := range objects {
		row := make([]string, len(columns))
		for name, v := range obj {
			row[seen[name]] = v
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func cellText(val []byte, vt jsonparser.ValueType) string {
	switch vt {
	case jsonparser.String:
		s, err := jsonparser.ParseString(val)
		if err != nil {
			return string(val)
		}
		return s
	case jsonparser.Null:
		return ""
	default:
		return string(val)
	}
}
