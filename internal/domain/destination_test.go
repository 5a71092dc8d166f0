package domain

import (
	"errors"
	"testing"
)

func TestDestination_ValidateShape(t *testing.T) {
	tests := []struct {
		name    string
		dest    Destination
		wantErr bool
	}{
		{
			name: "bank with IBAN",
			dest: Destination{Type: DestinationBank, IBAN: validTRIBAN, BankCode: "0006"},
		},
		{
			name:    "bank without IBAN",
			dest:    Destination{Type: DestinationBank},
			wantErr: true,
		},
		{
			name: "crypto complete",
			dest: Destination{Type: DestinationCrypto, Address: "0xabc", NetworkCode: "eth"},
		},
		{
			name:    "crypto missing address",
			dest:    Destination{Type: DestinationCrypto, NetworkCode: "eth"},
			wantErr: true,
		},
		{
			name:    "crypto missing network",
			dest:    Destination{Type: DestinationCrypto, Address: "0xabc"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			dest:    Destination{Type: "paypal"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dest.ValidateShape()
			if tt.wantErr {
				if !errors.Is(err, ErrMissingDestination) {
					t.Fatalf("ValidateShape() = %v, want ErrMissingDestination", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	const (
		ethPattern  = `^0x[0-9a-fA-F]{40}$`
		tronPattern = `^T[1-9A-HJ-NP-Za-km-z]{33}$`
	)

	tests := []struct {
		name    string
		address string
		pattern string
		wantErr bool
	}{
		{"ethereum valid", "0x52908400098527886E0F7030069857D2E4169EE7", ethPattern, false},
		{"ethereum missing prefix", "52908400098527886E0F7030069857D2E4169EE7", ethPattern, true},
		{"ethereum too short", "0x5290840009852788", ethPattern, true},
		{"tron valid", "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8", tronPattern, false},
		{"tron wrong prefix", "AJRabPrwbZy45sbavfcjinPJC18kjpRTv8", tronPattern, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.address, tt.pattern)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAddress) {
					t.Fatalf("ValidateAddress() = %v, want ErrInvalidAddress", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateAddress_BadPattern(t *testing.T) {
	err := ValidateAddress("anything", `([`)
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if errors.Is(err, ErrInvalidAddress) {
		t.Fatal("pattern compile failure should not be reported as an address mismatch")
	}
}
