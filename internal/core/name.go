package core

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NoNamePlaceholder is the Portuguese "no name" marker exported by many CRMs.
// It is treated the same as an empty name.
const NoNamePlaceholder = "sem nome"

// SplitName splits a full name into first and last name.
//
// Whitespace runs collapse to single spaces. An empty value or the "sem nome"
// placeholder (any case) yields two empty strings. Otherwise the first word
// becomes the first name and the remaining words, joined by single spaces,
// become the last name. Every word is capitalized: first letter upper, the
// rest lower.
func SplitName(raw string) (first, last string) {
	words := nameWords(raw)
	if len(words) == 0 {
		return "", ""
	}
	return words[0], strings.Join(words[1:], " ")
}

// CapitalizeName cleans a name fragment that is already split, such as a
// first_name column, with the same rules as [SplitName].
func CapitalizeName(raw string) string {
	return strings.Join(nameWords(raw), " ")
}

// nameWords returns the capitalized words of raw, or nil for blank and
// placeholder values.
func nameWords(raw string) []string {
	// NFC so a letter and its combining accent capitalize as one rune.
	words := strings.Fields(norm.NFC.String(raw))
	if len(words) == 0 {
		return nil
	}
	if strings.EqualFold(strings.Join(words, " "), NoNamePlaceholder) {
		return nil
	}
	// A Caser holds state, so each call gets its own.
	lower := cases.Lower(language.BrazilianPortuguese)
	for i, w := range words {
		words[i] = capitalizeWord(lower, w)
	}
	return words
}

// capitalizeWord upper-cases the first letter of w and lower-cases the rest.
// Hyphenated words are treated as a single word ("ana-maria" -> "Ana-maria").
func capitalizeWord(lower cases.Caser, w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError && size <= 1 {
		return lower.String(w)
	}
	return string(unicode.ToTitle(r)) + lower.String(w[size:])
}
