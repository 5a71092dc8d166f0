package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound = errors.New("ledger entry not found")
	ErrInvalidKind   = errors.New("unknown entry kind")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidStatus = errors.New("status not in the allowed set for this entry kind")

	// Destination errors
	ErrMissingDestination = errors.New("destination is incomplete")
	ErrInvalidIBAN        = errors.New("invalid IBAN")
	ErrInvalidAddress     = errors.New("invalid crypto address")
	ErrNetworkNotFound    = errors.New("network not found")

	// Rate errors
	ErrRateUnavailable = errors.New("rate provider unavailable")

	// Concurrency errors
	ErrConflict = errors.New("concurrent update conflict, please retry")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
