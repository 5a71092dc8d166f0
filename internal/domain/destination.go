package domain

import (
	"fmt"
	"regexp"
)

// DestinationType distinguishes bank and crypto payout targets.
type DestinationType string

const (
	DestinationBank   DestinationType = "bank"
	DestinationCrypto DestinationType = "crypto"
)

// Destination describes where funds leave the platform. Exactly one of the
// bank or crypto field groups is populated, selected by Type.
type Destination struct {
	Type        DestinationType
	IBAN        string
	BankCode    string
	Address     string
	NetworkCode string
}

// ValidateShape checks that the fields required by the destination type are
// present. Checksum and pattern validation happen separately.
func (d Destination) ValidateShape() error {
	switch d.Type {
	case DestinationBank:
		if d.IBAN == "" {
			return fmt.Errorf("%w: IBAN is required for bank destinations", ErrMissingDestination)
		}
	case DestinationCrypto:
		if d.Address == "" {
			return fmt.Errorf("%w: address is required for crypto destinations", ErrMissingDestination)
		}
		if d.NetworkCode == "" {
			return fmt.Errorf("%w: network is required for crypto destinations", ErrMissingDestination)
		}
	default:
		return fmt.Errorf("%w: unknown destination type %q", ErrMissingDestination, d.Type)
	}

	return nil
}

// ValidateAddress checks a crypto address against a network's pattern.
// Patterns are network metadata, loaded from storage rather than hard-coded,
// so new networks can be added without code changes.
func ValidateAddress(address, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid address pattern %q: %w", pattern, err)
	}

	if !re.MatchString(address) {
		return fmt.Errorf("%w: %q does not match the network pattern", ErrInvalidAddress, address)
	}

	return nil
}
