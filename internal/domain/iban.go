package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// IBANValidator validates IBANs for a single country format using the
// ISO 7064 MOD 97-10 check. The country prefix and digit count are
// configuration, not constants.
type IBANValidator struct {
	country string
	pattern *regexp.Regexp
}

// NewIBANValidator creates a validator for a two-letter country code whose
// IBANs consist of the code, two check digits, and digits-2 further digits
// (Turkey: country "TR", 24 digits after the prefix).
func NewIBANValidator(country string, digits int) (*IBANValidator, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	if len(country) != 2 || country[0] < 'A' || country[0] > 'Z' || country[1] < 'A' || country[1] > 'Z' {
		return nil, fmt.Errorf("invalid IBAN country code %q", country)
	}

	if digits <= 2 {
		return nil, fmt.Errorf("invalid IBAN digit count %d", digits)
	}

	pattern := regexp.MustCompile(fmt.Sprintf(`^%s[0-9]{%d}$`, country, digits))

	return &IBANValidator{country: country, pattern: pattern}, nil
}

// Country returns the configured country prefix.
func (v *IBANValidator) Country() string {
	return v.country
}

// Validate checks length, character class, and the MOD 97-10 checksum.
func (v *IBANValidator) Validate(iban string) error {
	normalized := strings.ToUpper(strings.Join(strings.Fields(iban), ""))

	if !v.pattern.MatchString(normalized) {
		return fmt.Errorf("%w: must match %s followed by digits", ErrInvalidIBAN, v.country)
	}

	// ISO 7064 rearrangement: country code and check digits move to the end.
	rearranged := normalized[4:] + normalized[:4]

	if mod97(rearranged) != 1 {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidIBAN)
	}

	return nil
}

// mod97 computes the ISO 7064 remainder digit by digit, mapping letters to
// their numeric values (A=10..Z=35), so arbitrarily long IBANs never need
// big-integer arithmetic.
func mod97(s string) int {
	rem := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			rem = (rem*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			v := int(r) - 55
			rem = (rem*100 + v) % 97
		default:
			return -1
		}
	}

	return rem
}
