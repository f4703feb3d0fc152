package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// bom is the UTF-8 byte order mark as it appears in decoded text.
const bom = "\ufeff"

// parsed is the output of the Parsed stage.
type parsed struct {
	header  []string
	records []RawRecord
	total   int // data rows read, blank ones included
	blank   int
}

// parseCSV splits text into a cleaned header and its data rows using delim.
// Quoting is strict. Rows with fewer fields than the header are padded;
// rows with more are rejected. Rows whose fields are all blank are dropped.
func parseCSV(text string, delim rune) (*parsed, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, bom)))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = false

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: ErrEmptyFile}
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}

	p := &parsed{header: uniqueHeaders(head)}
	width := len(p.header)

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(err)
		}
		line, _ := r.FieldPos(0)
		p.total++

		if len(row) > width {
			extraLine, col := r.FieldPos(width)
			return nil, &ParseError{Line: extraLine, Column: col, Err: ErrRaggedRow}
		}
		if isEmptyRow(row) {
			p.blank++
			continue
		}
		for len(row) < width {
			row = append(row, "")
		}
		p.records = append(p.records, RawRecord{Line: line, Fields: row})
	}
	return p, nil
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Column: pe.Column, Err: pe.Err}
	}
	return fmt.Errorf("invalid csv: %w", err)
}

// isEmptyRow reports whether every field of row is blank.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// validDelimiter mirrors the restrictions of encoding/csv.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}
