package core

// RawRecord is one data row as parsed, aligned with the cleaned header row.
type RawRecord struct {
	// Line is the 1-based input line the row starts on.
	Line   int
	Fields []string
}

// Get returns the value of col, or false when the header has no such column.
func (r RawRecord) Get(header []string, col string) (string, bool) {
	for i, h := range header {
		if h == col {
			return r.Fields[i], true
		}
	}
	return "", false
}

// Schema describes which canonical columns a Table carries. Extra holds the
// unrecognized columns in their original order.
type Schema struct {
	HasFirstName bool     `json:"hasFirstName"`
	HasLastName  bool     `json:"hasLastName"`
	HasEmail     bool     `json:"hasEmail"`
	HasPhone     bool     `json:"hasPhone"`
	Extra        []string `json:"extra"`
}

// Columns returns the column order of the table: first_name, last_name,
// email, phone_number when present, then the extra columns.
func (s Schema) Columns() []string {
	cols := make([]string, 0, 4+len(s.Extra))
	if s.HasFirstName {
		cols = append(cols, FieldFirstName)
	}
	if s.HasLastName {
		cols = append(cols, FieldLastName)
	}
	if s.HasEmail {
		cols = append(cols, FieldEmail)
	}
	if s.HasPhone {
		cols = append(cols, FieldPhoneNumber)
	}
	return append(cols, s.Extra...)
}

// NormalizedRecord is a contact after field normalization. Canonical fields
// are empty when absent or invalid. Extra is aligned with Schema.Extra.
type NormalizedRecord struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	Extra       []string `json:"extra"`
}

// Stats summarizes what Normalize did to the input.
type Stats struct {
	Delimiter        string      `json:"delimiter"`
	InputRows        int         `json:"inputRows"`
	BlankRows        int         `json:"blankRows"`
	InvalidEmailRows int         `json:"invalidEmailRows"`
	KeptRows         int         `json:"keptRows"`
	EmptyPhones      int         `json:"emptyPhones"`
	Collisions       []Collision `json:"collisions,omitempty"`
}

// Table is the normalized result of one input file. It is not modified after
// Normalize returns; callers that need a different shape use [Project].
type Table struct {
	Schema  Schema             `json:"schema"`
	Records []NormalizedRecord `json:"records"`
	Stats   Stats              `json:"stats"`
}

// Columns returns the ordered column names of the table.
func (t *Table) Columns() []string {
	return t.Schema.Columns()
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// HasColumn reports whether col is one of the table's columns.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.getter(col)
	return ok
}

// Rows returns every record as a slice aligned with Columns.
func (t *Table) Rows() [][]string {
	cols := t.Columns()
	getters := make([]func(*NormalizedRecord) string, len(cols))
	for i, c := range cols {
		getters[i], _ = t.getter(c)
	}

	rows := make([][]string, len(t.Records))
	for i := range t.Records {
		row := make([]string, len(cols))
		for j, get := range getters {
			row[j] = get(&t.Records[i])
		}
		rows[i] = row
	}
	return rows
}

// Maps returns every record keyed by column name, for JSON previews.
func (t *Table) Maps() []map[string]string {
	cols := t.Columns()
	rows := t.Rows()
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		m := make(map[string]string, len(cols))
		for j, c := range cols {
			m[c] = row[j]
		}
		out[i] = m
	}
	return out
}

// getter returns an accessor for col. Canonical columns are only present
// when the schema says so.
func (t *Table) getter(col string) (func(*NormalizedRecord) string, bool) {
	s := t.Schema
	switch {
	case col == FieldFirstName && s.HasFirstName:
		return func(r *NormalizedRecord) string { return r.FirstName }, true
	case col == FieldLastName && s.HasLastName:
		return func(r *NormalizedRecord) string { return r.LastName }, true
	case col == FieldEmail && s.HasEmail:
		return func(r *NormalizedRecord) string { return r.Email }, true
	case col == FieldPhoneNumber && s.HasPhone:
		return func(r *NormalizedRecord) string { return r.PhoneNumber }, true
	}
	for i, e := range s.Extra {
		if e == col {
			return func(r *NormalizedRecord) string {
				if i < len(r.Extra) {
					return r.Extra[i]
				}
				return ""
			}, true
		}
	}
	return nil, false
}
