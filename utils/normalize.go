package utils

import (
	"strings"
	"unicode"

	"github.com/ttacon/libphonenumber"
)

// NormalizeRef uppercases a booking reference and strips everything but letters and digits.
func NormalizeRef(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeName lowercases, collapses whitespace and turns "Last, First" into "First Last".
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if parts := strings.SplitN(s, ",", 2); len(parts) == 2 {
		last, first := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if last != "" && first != "" {
			s = first + " " + last
		} else {
			s = last + first
		}
	}
	return CollapseSpaces(s)
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone keeps digits and a leading '+'.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "+" {
		return ""
	}
	return out
}

// PhoneNormalizer returns a normalizer that formats numbers as E.164 using region for
// numbers written without a country code. Unparseable input falls back to NormalizePhone.
func PhoneNormalizer(region string) func(string) string {
	return func(s string) string {
		plain := NormalizePhone(s)
		if plain == "" || region == "" {
			return plain
		}
		p, err := libphonenumber.Parse(plain, region)
		if err != nil {
			return plain
		}
		return libphonenumber.Format(p, libphonenumber.E164)
	}
}

var placeholderEmailMarkers = []string{
	"noreply",
	"no-reply",
	"placeholder",
	"unknown@",
	"@example.",
	"guest@",
}

// IsPlaceholderEmail reports whether an address is a sentinel written when no real address was found.
func IsPlaceholderEmail(s string) bool {
	s = NormalizeEmail(s)
	if s == "" || !strings.Contains(s, "@") {
		return true
	}
	for _, m := range placeholderEmailMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
