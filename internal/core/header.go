package core

// header.go reconciles arbitrary, often Portuguese, spreadsheet headers with
// the canonical contact schema.
//
// Matching happens in two passes:
//  1. Exact names for the split-name columns (first_name, last_name and their
//     Portuguese equivalents). These are checked first so a table that was
//     already exported by this tool maps back onto itself.
//  2. Case-insensitive substring matching against the keyword sets below.
//     The first set that matches wins: name, then email, then phone.

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical column names.
const (
	FieldName        = "name"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldPhoneNumber = "phone_number"
)

// keywordSet pairs a canonical field with the substrings that identify it.
type keywordSet struct {
	field    string
	keywords []string
}

// headerKeywords is ordered; the first matching set wins.
var headerKeywords = []keywordSet{
	{field: FieldName, keywords: []string{"nome", "name"}},
	{field: FieldEmail, keywords: []string{"email", "e-mail", "e_mail"}},
	{field: FieldPhone, keywords: []string{"phone", "telefone", "celular", "tel", "fone", "whatsapp"}},
}

// exactHeaders maps normalized header spellings to the split-name fields.
var exactHeaders = map[string]string{
	"first_name":    FieldFirstName,
	"firstname":     FieldFirstName,
	"primeiro_nome": FieldFirstName,
	"last_name":     FieldLastName,
	"lastname":      FieldLastName,
	"sobrenome":     FieldLastName,
	"ultimo_nome":   FieldLastName,
	"último_nome":   FieldLastName,
}

// Collision records two original columns that mapped to the same canonical
// field. The later column (Kept) wins and the earlier one (Dropped) is
// discarded.
type Collision struct {
	Field   string `json:"field"`
	Dropped string `json:"dropped"`
	Kept    string `json:"kept"`
}

func (c Collision) String() string {
	return fmt.Sprintf("%s: %q replaced by %q", c.Field, c.Dropped, c.Kept)
}

// HeaderMapping is the result of reconciling a header row.
type HeaderMapping struct {
	// Canonical maps original column name to canonical field name. Columns
	// that matched no keyword set are absent.
	Canonical map[string]string

	// Collisions lists canonical fields claimed by more than one column.
	Collisions []Collision
}

// CanonicalFor returns the canonical field for an original column name.
func (m HeaderMapping) CanonicalFor(col string) (string, bool) {
	f, ok := m.Canonical[col]
	return f, ok
}

// Dropped reports whether col lost a collision to a later column.
func (m HeaderMapping) Dropped(col string) bool {
	for _, c := range m.Collisions {
		if c.Dropped == col {
			return true
		}
	}
	return false
}

// CanonicalField classifies a single column name. It reports false when the
// column is not recognized and should pass through unchanged.
func CanonicalField(col string) (string, bool) {
	clean := strings.ToLower(CleanHeader(col))
	if clean == "" {
		return "", false
	}

	key := strings.NewReplacer(" ", "_", "-", "_").Replace(clean)
	if f, ok := exactHeaders[key]; ok {
		return f, true
	}

	for _, set := range headerKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(clean, kw) {
				return set.field, true
			}
		}
	}
	return "", false
}

// MapHeaders builds the original-to-canonical mapping for a header row.
// When two columns map to the same field, the one applied last (rightmost)
// wins and the collision is reported.
func MapHeaders(columns []string) HeaderMapping {
	m := HeaderMapping{Canonical: make(map[string]string, len(columns))}
	owner := make(map[string]string, 4)

	for _, col := range columns {
		field, ok := CanonicalField(col)
		if !ok {
			continue
		}
		if prev, taken := owner[field]; taken {
			delete(m.Canonical, prev)
			m.Collisions = append(m.Collisions, Collision{Field: field, Dropped: prev, Kept: col})
		}
		owner[field] = col
		m.Canonical[col] = field
	}
	return m
}

// CleanHeader removes common spreadsheet artifacts from a header cell:
//   - UTF-8 byte order mark
//   - surrounding whitespace
//   - Excel formula wrapper (="...")
func CleanHeader(s string) string {
	s = strings.TrimPrefix(s, bom)
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}

// unnamedPrefix names blank header cells. It must not contain any header
// keyword, or a trailing delimiter would claim a canonical field.
const unnamedPrefix = "column_"

// unnamedHeader returns the placeholder for the blank header cell at the
// 0-based index i. Placeholders are numbered from 1 like csv columns.
func unnamedHeader(i int) string {
	return unnamedPrefix + strconv.Itoa(i+1)
}

// uniqueHeaders cleans a raw header row, names blank cells "column_N" and
// disambiguates repeated names as "X", "X.1", "X.2".
func uniqueHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	used := make(map[string]bool, len(raw))

	for i, h := range raw {
		name := CleanHeader(h)
		if name == "" {
			name = unnamedHeader(i)
		}

		candidate := name
		for used[candidate] {
			seen[name]++
			candidate = name + "." + strconv.Itoa(seen[name])
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
