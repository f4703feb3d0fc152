package core

import "fmt"

// Options controls Normalize.
type Options struct {
	// Delimiter forces the field separator. Zero means detect it.
	Delimiter rune
}

// columnPlan records where each canonical field lives in the parsed header.
// An index of -1 means the field is absent.
type columnPlan struct {
	name, first, last, email, phone int
	extra                           []int
}

// Normalize runs the full pipeline over decoded text and returns the table.
// Structural problems return a *ParseError and no table.
func Normalize(text string, opts Options) (*Table, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(text)
	}
	if !validDelimiter(delim) {
		return nil, fmt.Errorf("%w %q", ErrInvalidDelimiter, delim)
	}

	// Parsed
	p, err := parseCSV(text, delim)
	if err != nil {
		return nil, err
	}

	// HeaderMapped
	mapping := MapHeaders(p.header)
	plan := planColumns(p.header, mapping)

	t := &Table{
		Schema: Schema{
			HasFirstName: plan.name >= 0 || plan.first >= 0,
			HasLastName:  plan.name >= 0 || plan.last >= 0,
			HasEmail:     plan.email >= 0,
			HasPhone:     plan.phone >= 0,
		},
		Stats: Stats{
			Delimiter:  string(delim),
			InputRows:  p.total,
			BlankRows:  p.blank,
			Collisions: mapping.Collisions,
		},
	}
	t.Schema.Extra = make([]string, len(plan.extra))
	for i, idx := range plan.extra {
		t.Schema.Extra[i] = p.header[idx]
	}

	t.Records = make([]NormalizedRecord, 0, len(p.records))
	for _, raw := range p.records {
		// FieldsNormalized
		rec := normalizeRecord(raw.Fields, plan)

		// Filtered
		if t.Schema.HasEmail && rec.Email == "" {
			t.Stats.InvalidEmailRows++
			continue
		}
		if t.Schema.HasPhone && rec.PhoneNumber == "" {
			t.Stats.EmptyPhones++
		}
		t.Records = append(t.Records, rec)
	}
	t.Stats.KeptRows = len(t.Records)

	// Ordered: the column order is a property of Schema.
	return t, nil
}

// planColumns resolves the header mapping to field positions. Columns that
// lost a collision are left out of the table entirely.
func planColumns(header []string, m HeaderMapping) columnPlan {
	plan := columnPlan{name: -1, first: -1, last: -1, email: -1, phone: -1}
	for i, col := range header {
		field, ok := m.CanonicalFor(col)
		if !ok {
			if !m.Dropped(col) {
				plan.extra = append(plan.extra, i)
			}
			continue
		}
		switch field {
		case FieldName:
			plan.name = i
		case FieldFirstName:
			plan.first = i
		case FieldLastName:
			plan.last = i
		case FieldEmail:
			plan.email = i
		case FieldPhone:
			plan.phone = i
		}
	}
	return plan
}

// normalizeRecord applies the field normalizers to one row.
func normalizeRecord(fields []string, plan columnPlan) NormalizedRecord {
	var rec NormalizedRecord

	switch {
	case plan.name >= 0:
		rec.FirstName, rec.LastName = SplitName(fields[plan.name])
	default:
		if plan.first >= 0 {
			rec.FirstName = CapitalizeName(fields[plan.first])
		}
		if plan.last >= 0 {
			rec.LastName = CapitalizeName(fields[plan.last])
		}
	}
	if plan.email >= 0 {
		rec.Email = ValidateEmail(fields[plan.email])
	}
	if plan.phone >= 0 {
		rec.PhoneNumber = CanonicalizePhone(fields[plan.phone])
	}

	rec.Extra = make([]string, len(plan.extra))
	for i, idx := range plan.extra {
		rec.Extra[i] = fields[idx]
	}
	return rec
}
