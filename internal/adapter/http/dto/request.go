package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/payouts/internal/domain"
	"github.com/iho/payouts/internal/usecase"
)

// DestinationRequest represents a payout destination in requests.
type DestinationRequest struct {
	Type        string `json:"type"`
	IBAN        string `json:"iban,omitempty"`
	BankCode    string `json:"bank_code,omitempty"`
	Address     string `json:"address,omitempty"`
	NetworkCode string `json:"network_code,omitempty"`
}

func (r *DestinationRequest) toDomain() domain.Destination {
	return domain.Destination{
		Type:        domain.DestinationType(r.Type),
		IBAN:        r.IBAN,
		BankCode:    r.BankCode,
		Address:     r.Address,
		NetworkCode: r.NetworkCode,
	}
}

// CreateEntryRequest represents a request to create a ledger entry.
type CreateEntryRequest struct {
	OwnerID     string             `json:"owner_id"`
	Kind        string             `json:"kind"`
	Amount      decimal.Decimal    `json:"amount"`
	Destination DestinationRequest `json:"destination"`
	Notes       string             `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() usecase.CreateEntryInput {
	return usecase.CreateEntryInput{
		OwnerID:     r.OwnerID,
		Kind:        domain.EntryKind(r.Kind),
		AmountLocal: r.Amount,
		Destination: r.Destination.toDomain(),
		Notes:       r.Notes,
	}
}

// UpdateStatusRequest represents a status transition request.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateNotesRequest represents a notes update request.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateAmountRequest represents an amount update request.
type UpdateAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// AppendHistoryRequest represents a request to append a history record.
type AppendHistoryRequest struct {
	MessageKey string         `json:"message_key"`
	Kind       string         `json:"kind"`
	Parameters map[string]any `json:"parameters,omitempty"`
}
