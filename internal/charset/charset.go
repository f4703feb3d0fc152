// Package charset turns uploaded bytes into text for the normalization
// pipeline.
//
// Spreadsheet exports arrive in whatever encoding the user's machine
// defaults to. [Decode] tries, in order:
//
//   - UTF-8, with or without a byte order mark
//   - Windows-1252, the Excel default on Brazilian Windows installs
//   - ISO-8859-1, which accepts any byte sequence
//
// The first candidate that decodes the whole input wins.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported by Decode.
const (
	UTF8        = "utf-8"
	UTF8BOM     = "utf-8-sig"
	Windows1252 = "windows-1252"
	ISO88591    = "iso-8859-1"
)

// ErrUndecodable is returned when no candidate encoding applies.
var ErrUndecodable = errors.New("encoding error")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as text along with the name of the encoding used.
// A UTF-8 byte order mark is never part of the returned text.
func Decode(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("%w: empty input", ErrUndecodable)
	}

	body, hadBOM := bytes.CutPrefix(data, utf8BOM)
	if utf8.Valid(body) {
		if hadBOM {
			return string(body), UTF8BOM, nil
		}
		return string(body), UTF8, nil
	}

	if !hasUndefined1252(body) {
		text, err := charmap.Windows1252.NewDecoder().Bytes(body)
		if err == nil {
			return string(text), Windows1252, nil
		}
	}

	text, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return string(text), ISO88591, nil
}

// hasUndefined1252 reports whether b contains a byte that Windows-1252
// leaves unassigned.
func hasUndefined1252(b []byte) bool {
	for _, c := range b {
		switch c {
		case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
			return true
		}
	}
	return false
}
