package core

import "strings"

// Supported field separators.
const (
	Comma     = ','
	Semicolon = ';'
)

// DetectDelimiter picks the field separator for text by counting commas and
// semicolons on the first non-blank line, ignoring any that appear inside
// double-quoted sections. Semicolon wins ties; a line with neither yields a
// comma.
func DetectDelimiter(text string) rune {
	line := firstLine(text)

	var commas, semicolons int
	inQuotes := false
	for _, r := range line {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case Comma:
			if !inQuotes {
				commas++
			}
		case Semicolon:
			if !inQuotes {
				semicolons++
			}
		}
	}

	if commas == 0 && semicolons == 0 {
		return Comma
	}
	if semicolons >= commas {
		return Semicolon
	}
	return Comma
}

// firstLine returns the first line of text that is not blank.
func firstLine(text string) string {
	text = strings.TrimPrefix(text, bom)
	for text != "" {
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			text = ""
		}
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
