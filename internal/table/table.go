// Package table reads header-keyed CSV tables the way the data build consumes
// them: one map-like row per record, looked up by column name.
package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrMissingColumn is returned when a table lacks a column the caller needs.
	ErrMissingColumn = errors.New("missing column")
	// ErrMissingVersion is returned when a versioned table has no "Version X," line.
	ErrMissingVersion = errors.New("missing version header")
)

const bom = "\ufeff"

// Table is a parsed CSV file: the header line plus every data row.
type Table struct {
	Header []string
	Rows   []Row
	index  map[string]int
}

// Row is one data line of a Table.
type Row struct {
	table  *Table
	values []string
}

// Get returns the raw value of column col, or "" when the column is absent or
// the row is short.
func (r Row) Get(col string) string {
	i, ok := r.table.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

// Trimmed returns Get(col) with surrounding whitespace removed.
func (r Row) Trimmed(col string) string {
	return strings.TrimSpace(r.Get(col))
}

// Has reports whether the table of this row carries column col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require checks that every named column is present in the header.
//
// Postcondition: Returns nil, or an error wrapping ErrMissingColumn naming all
// absent columns.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Read parses a CSV stream whose first record is the header.
//
// Postcondition: Returns a Table with a non-empty Header or a non-nil error.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("reading header: empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	t := &Table{Header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		t.index[h] = i
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, Row{table: t, values: rec})
	}
	return t, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// ReadVersioned parses a table preceded by a single preamble line that embeds
// a version token, as in "Siralim Ultimate Compendium - Version 2.4.1,,,".
//
// Postcondition: Returns the version and the table, or an error wrapping
// ErrMissingVersion when the preamble has no version.
func ReadVersioned(r io.Reader) (string, *Table, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", nil, fmt.Errorf("reading version line: %w", err)
	}
	version, err := ParseVersion(strings.TrimPrefix(line, bom))
	if err != nil {
		return "", nil, err
	}
	t, err := Read(br)
	if err != nil {
		return "", nil, err
	}
	return version, t, nil
}

// ReadVersionedFile opens path and parses it with ReadVersioned.
func ReadVersionedFile(path string) (string, *Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	version, t, err := ReadVersioned(f)
	if err != nil {
		return "", nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return version, t, nil
}

// ParseVersion extracts the text between "Version " and the next comma.
//
// Postcondition: Returns a non-empty version or an error wrapping ErrMissingVersion.
func ParseVersion(line string) (string, error) {
	_, after, ok := strings.Cut(line, "Version ")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingVersion, strings.TrimSpace(line))
	}
	version, _, _ := strings.Cut(after, ",")
	version = strings.TrimSpace(version)
	if version == "" {
		return "", fmt.Errorf("%w: empty version in %q", ErrMissingVersion, strings.TrimSpace(line))
	}
	return version, nil
}

// NormalizeKey converts a column heading to its JSON field name:
// lower-cased with spaces replaced by underscores.
func NormalizeKey(col string) string {
	return strings.ReplaceAll(strings.ToLower(col), " ", "_")
}
