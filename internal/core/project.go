package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ColumnSpec selects one table column for export under a display name.
type ColumnSpec struct {
	Original string `json:"originalName"`
	Display  string `json:"displayName"`
}

// ExportSpec describes one export of a Table.
type ExportSpec struct {
	// Columns selects and renames columns in order. Empty exports every
	// column under its own name.
	Columns []ColumnSpec

	// TagName and TagValue append a constant column when both are set.
	TagName  string
	TagValue string

	// Deduplicate drops later rows that repeat an email address. Nil means
	// true when Columns is set and false otherwise.
	Deduplicate *bool
}

// Dedupe resolves the Deduplicate default.
func (s ExportSpec) Dedupe() bool {
	if s.Deduplicate != nil {
		return *s.Deduplicate
	}
	return len(s.Columns) > 0
}

// Projection is a table reshaped for export.
type Projection struct {
	Header            []string
	Rows              [][]string
	DuplicatesRemoved int
}

// Apply reshapes t according to spec. t is not modified.
func Apply(t *Table, spec ExportSpec) (*Projection, error) {
	cols := spec.Columns
	if len(cols) == 0 {
		for _, c := range t.Columns() {
			cols = append(cols, ColumnSpec{Original: c, Display: c})
		}
	}

	getters := make([]func(*NormalizedRecord) string, len(cols))
	header := make([]string, len(cols))
	emailCol := -1
	for i, c := range cols {
		get, ok := t.getter(c.Original)
		if !ok {
			return nil, &UnknownColumnError{Column: c.Original}
		}
		getters[i] = get
		header[i] = c.Display
		if strings.TrimSpace(header[i]) == "" {
			header[i] = c.Original
		}
		if c.Original == FieldEmail && emailCol < 0 {
			emailCol = i
		}
	}

	tagCol := -1
	if strings.TrimSpace(spec.TagName) != "" && spec.TagValue != "" {
		for i, h := range header {
			if h == spec.TagName {
				tagCol = i
				break
			}
		}
		if tagCol < 0 {
			header = append(header, spec.TagName)
			tagCol = len(header) - 1
		}
	}

	p := &Projection{Header: header, Rows: make([][]string, 0, len(t.Records))}
	dedupe := spec.Dedupe() && emailCol >= 0
	seen := make(map[string]struct{})

	for i := range t.Records {
		row := make([]string, len(header))
		for j, get := range getters {
			row[j] = get(&t.Records[i])
		}
		// Dedup keys on the email value, even if the tag overwrites it.
		var key string
		if dedupe {
			key = row[emailCol]
		}
		if tagCol >= 0 {
			row[tagCol] = spec.TagValue
		}

		if key != "" {
			if _, dup := seen[key]; dup {
				p.DuplicatesRemoved++
				continue
			}
			seen[key] = struct{}{}
		}
		p.Rows = append(p.Rows, row)
	}
	return p, nil
}

// WriteCSV writes the header and rows as comma-separated text.
func (p *Projection) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(p.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(p.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// Project applies spec to t and serializes the result.
func Project(t *Table, spec ExportSpec) ([]byte, error) {
	p, err := Apply(t, spec)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := p.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
