package core

import "strings"

// BrazilCountryCode prefixes every canonical phone number.
const BrazilCountryCode = "55"

// Accepted digit counts before the country code is applied.
const (
	minPhoneDigits = 10
	maxPhoneDigits = 13
)

// CanonicalizePhone reduces a raw phone value to digits beginning with the
// Brazilian country code, such as "5511999999999".
//
// Non-digit characters are removed first. Values with fewer than 10 or more
// than 13 digits are rejected. A 10 or 11 digit value (DDD plus number) that
// does not already start with 55 gets the country code prepended. Anything
// that still does not start with 55 is rejected. Rejected values yield "".
func CanonicalizePhone(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return ""
	}

	if !strings.HasPrefix(digits, BrazilCountryCode) && (len(digits) == 10 || len(digits) == 11) {
		digits = BrazilCountryCode + digits
	}
	if !strings.HasPrefix(digits, BrazilCountryCode) {
		return ""
	}
	return digits
}

// onlyDigits keeps the ASCII digits of s.
func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
