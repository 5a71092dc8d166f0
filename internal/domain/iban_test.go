package domain

import (
	"errors"
	"testing"
)

const validTRIBAN = "TR330006100519786457841326"

func newTRValidator(t *testing.T) *IBANValidator {
	t.Helper()

	v, err := NewIBANValidator("TR", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return v
}

func TestIBANValidator_Valid(t *testing.T) {
	v := newTRValidator(t)

	tests := []struct {
		name string
		iban string
	}{
		{"canonical", validTRIBAN},
		{"lowercase", "tr330006100519786457841326"},
		{"grouped with spaces", "TR33 0006 1005 1978 6457 8413 26"},
		{"leading and trailing whitespace", "  TR330006100519786457841326\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.Validate(tt.iban); err != nil {
				t.Fatalf("Validate(%q) = %v, want nil", tt.iban, err)
			}
		})
	}
}

func TestIBANValidator_Invalid(t *testing.T) {
	v := newTRValidator(t)

	tests := []struct {
		name string
		iban string
	}{
		{"empty", ""},
		{"wrong country", "DE330006100519786457841326"},
		{"too short", "TR33000610051978645784132"},
		{"too long", "TR3300061005197864578413260"},
		{"letters in body", "TR33000610051978645784132A"},
		{"last digit mutated", "TR330006100519786457841327"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.iban)
			if !errors.Is(err, ErrInvalidIBAN) {
				t.Fatalf("Validate(%q) = %v, want ErrInvalidIBAN", tt.iban, err)
			}
		})
	}
}

// Mutating any single digit of a valid IBAN must break the checksum: a
// one-digit change shifts the value by c*10^k mod 97 which is never zero.
func TestIBANValidator_SingleDigitMutationsDetected(t *testing.T) {
	v := newTRValidator(t)

	for i := 2; i < len(validTRIBAN); i++ {
		for delta := byte(1); delta <= 9; delta++ {
			mutated := []byte(validTRIBAN)
			mutated[i] = '0' + (mutated[i]-'0'+delta)%10

			if err := v.Validate(string(mutated)); err == nil {
				t.Fatalf("mutation at position %d (%q) passed validation", i, mutated)
			}
		}
	}
}

func TestNewIBANValidator_Config(t *testing.T) {
	tests := []struct {
		name    string
		country string
		digits  int
		wantErr bool
	}{
		{"turkey", "TR", 24, false},
		{"lowercase country normalized", "tr", 24, false},
		{"one letter country", "T", 24, true},
		{"digit in country", "T1", 24, true},
		{"too few digits", "TR", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIBANValidator(tt.country, tt.digits)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewIBANValidator(%q, %d) error = %v, wantErr %v", tt.country, tt.digits, err, tt.wantErr)
			}
		})
	}
}
