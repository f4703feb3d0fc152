package core

import (
	"reflect"
	"testing"
)

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "Nome", want: FieldName, wantOK: true},
		{input: "Full Name", want: FieldName, wantOK: true},
		{input: "E-mail", want: FieldEmail, wantOK: true},
		{input: "Email Address", want: FieldEmail, wantOK: true},
		{input: "e_mail", want: FieldEmail, wantOK: true},
		{input: "Telefone Celular", want: FieldPhone, wantOK: true},
		{input: "WhatsApp", want: FieldPhone, wantOK: true},
		{input: "phone_number", want: FieldPhone, wantOK: true},
		{input: "first_name", want: FieldFirstName, wantOK: true},
		{input: "First Name", want: FieldFirstName, wantOK: true},
		{input: "primeiro-nome", want: FieldFirstName, wantOK: true},
		{input: "Sobrenome", want: FieldLastName, wantOK: true},
		{input: "Último Nome", want: FieldLastName, wantOK: true},
		{input: `="Nome"`, want: FieldName, wantOK: true},
		{input: "\ufeffemail", want: FieldEmail, wantOK: true},
		{input: "Empresa", want: "", wantOK: false},
		{input: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CanonicalField(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CanonicalField(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMapHeaders(t *testing.T) {
	t.Run("maps recognized columns only", func(t *testing.T) {
		m := MapHeaders([]string{"Nome", "E-mail", "Cidade", "Celular"})

		want := map[string]string{"Nome": FieldName, "E-mail": FieldEmail, "Celular": FieldPhone}
		if !reflect.DeepEqual(m.Canonical, want) {
			t.Errorf("Canonical = %v, want %v", m.Canonical, want)
		}
		if len(m.Collisions) != 0 {
			t.Errorf("Collisions = %v, want none", m.Collisions)
		}
	})

	t.Run("last column wins a collision", func(t *testing.T) {
		m := MapHeaders([]string{"Nome", "Email", "Nome Completo"})

		if got, _ := m.CanonicalFor("Nome Completo"); got != FieldName {
			t.Errorf("CanonicalFor(Nome Completo) = %q, want %q", got, FieldName)
		}
		if _, ok := m.CanonicalFor("Nome"); ok {
			t.Error("CanonicalFor(Nome) should be unmapped after losing the collision")
		}
		if !m.Dropped("Nome") {
			t.Error("Dropped(Nome) = false, want true")
		}
		want := []Collision{{Field: FieldName, Dropped: "Nome", Kept: "Nome Completo"}}
		if !reflect.DeepEqual(m.Collisions, want) {
			t.Errorf("Collisions = %v, want %v", m.Collisions, want)
		}
	})

	t.Run("blank header cells pass through", func(t *testing.T) {
		header := uniqueHeaders([]string{"Name", "", "Email", "Phone", ""})
		m := MapHeaders(header)

		want := map[string]string{"Name": FieldName, "Email": FieldEmail, "Phone": FieldPhone}
		if !reflect.DeepEqual(m.Canonical, want) {
			t.Errorf("Canonical = %v, want %v", m.Canonical, want)
		}
		if len(m.Collisions) != 0 {
			t.Errorf("Collisions = %v, want none", m.Collisions)
		}
	})
}

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "  Nome  ", want: "Nome"},
		{input: "\ufeffEmail", want: "Email"},
		{input: `="Telefone"`, want: "Telefone"},
		{input: `="`, want: `="`},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := CleanHeader(tt.input); got != tt.want {
			t.Errorf("CleanHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUniqueHeaders(t *testing.T) {
	got := uniqueHeaders([]string{"a", "", "a", "a.1", " a "})
	want := []string{"a", "column_2", "a.1", "a.1.1", "a.2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("uniqueHeaders() = %q, want %q", got, want)
	}
}

func TestUnnamedHeadersAreUnrecognized(t *testing.T) {
	for i := 0; i < 100; i++ {
		h := unnamedHeader(i)
		if f, ok := CanonicalField(h); ok {
			t.Errorf("CanonicalField(%q) = %q, want unrecognized", h, f)
		}
	}
}
