package core

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const mailtoPrefix = "mailto:"

// RFC 5321 limits.
const (
	maxEmailLength    = 254
	maxEmailLocalPart = 64
)

// validate is safe for concurrent use and caches its parsed tags.
var validate = validator.New()

// ValidateEmail returns the canonical form of raw: trimmed, lower-cased and
// without a leading "mailto:". It returns "" when the address does not follow
// the local-part@domain grammar or its domain has no dot. No DNS or
// deliverability check is made.
func ValidateEmail(raw string) string {
	addr := strings.ToLower(strings.TrimSpace(raw))
	addr = strings.TrimSpace(strings.TrimPrefix(addr, mailtoPrefix))

	if addr == "" || len(addr) > maxEmailLength {
		return ""
	}
	if strings.ContainsFunc(addr, isSpaceOrControl) {
		return ""
	}

	at := strings.LastIndexByte(addr, '@')
	if at <= 0 || at > maxEmailLocalPart {
		return ""
	}
	domain := addr[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ""
	}

	if err := validate.Var(addr, "required,email"); err != nil {
		return ""
	}
	return addr
}

func isSpaceOrControl(r rune) bool {
	return r <= ' ' || r == 0x7f
}
