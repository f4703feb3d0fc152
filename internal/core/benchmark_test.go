package core

import (
	"fmt"
	"strings"
	"testing"
)

// ============================================================================
// Field Normalizer Benchmarks
// ============================================================================

// BenchmarkCanonicalizePhone covers the common Brazilian spellings.
func BenchmarkCanonicalizePhone(b *testing.B) {
	testCases := []string{
		"(11) 98765-4321",
		"+55 11 98765-4321",
		"11 3333-4444",
		"021-99999-8888",
		"123",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CanonicalizePhone(tc)
		}
	}
}

// BenchmarkValidateEmail mixes valid and rejected addresses.
func BenchmarkValidateEmail(b *testing.B) {
	testCases := []string{
		"Maria@Example.com",
		"mailto:joao@empresa.com.br",
		"ana@localhost",
		"not an email",
		"",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ValidateEmail(tc)
		}
	}
}

// BenchmarkSplitName includes accented and decomposed input.
func BenchmarkSplitName(b *testing.B) {
	testCases := []string{
		"maria da silva",
		"JOSÉ  ÁLVARES   CABRAL",
		"érica souza",
		"Sem Nome",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			SplitName(tc)
		}
	}
}

// ============================================================================
// Pipeline Benchmarks
// ============================================================================

// generateContacts builds a semicolon-delimited export with n data rows.
func generateContacts(n int) string {
	var sb strings.Builder
	sb.WriteString("Nome Completo;E-mail;Celular;Cidade\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "cliente número %d;Cliente%d@Example.com;(11) 9%04d-%04d;São Paulo\n", i, i, i%10000, i%7919)
	}
	return sb.String()
}

// BenchmarkNormalize_1000 benchmarks a typical small CRM export.
func BenchmarkNormalize_1000(b *testing.B) {
	text := generateContacts(1000)

	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Normalize(text, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkNormalize_50000 benchmarks a file near the upload size limit.
func BenchmarkNormalize_50000(b *testing.B) {
	text := generateContacts(50000)

	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Normalize(text, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProject benchmarks export with renaming, tag and deduplication.
func BenchmarkProject(b *testing.B) {
	table, err := Normalize(generateContacts(10000), Options{})
	if err != nil {
		b.Fatal(err)
	}
	spec := ExportSpec{
		Columns: []ColumnSpec{
			{Original: FieldFirstName, Display: "Name"},
			{Original: FieldEmail, Display: "Email"},
			{Original: FieldPhoneNumber, Display: "Phone"},
		},
		TagName:  "Tag",
		TagValue: "benchmark",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Project(table, spec); err != nil {
			b.Fatal(err)
		}
	}
}
