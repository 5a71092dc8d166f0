package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payouts/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DestinationResponse represents a payout destination in API responses.
type DestinationResponse struct {
	Type        string `json:"type"`
	IBAN        string `json:"iban,omitempty"`
	BankCode    string `json:"bank_code,omitempty"`
	Address     string `json:"address,omitempty"`
	NetworkCode string `json:"network_code,omitempty"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID           string                  `json:"id"`
	OwnerID      string                  `json:"owner_id"`
	Kind         string                  `json:"kind"`
	Status       string                  `json:"status"`
	Amount       decimal.Decimal         `json:"amount"`
	AmountUSD    decimal.Decimal         `json:"amount_usd"`
	ExchangeRate decimal.Decimal         `json:"exchange_rate"`
	Destination  DestinationResponse     `json:"destination"`
	Notes        string                  `json:"notes,omitempty"`
	History      []HistoryRecordResponse `json:"history,omitempty"`
	ProcessedAt  *time.Time              `json:"processed_at,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:           e.ID,
		OwnerID:      e.OwnerID,
		Kind:         string(e.Kind),
		Status:       e.Status,
		Amount:       e.AmountLocal,
		AmountUSD:    e.AmountUSD,
		ExchangeRate: e.ExchangeRate,
		Destination: DestinationResponse{
			Type:        string(e.Destination.Type),
			IBAN:        e.Destination.IBAN,
			BankCode:    e.Destination.BankCode,
			Address:     e.Destination.Address,
			NetworkCode: e.Destination.NetworkCode,
		},
		Notes:       e.Notes,
		History:     HistoryFromDomain(e.History),
		ProcessedAt: e.ProcessedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// HistoryRecordResponse represents a history record in API responses.
type HistoryRecordResponse struct {
	Sequence   int64          `json:"sequence"`
	MessageKey string         `json:"message_key"`
	Kind       string         `json:"kind"`
	Parameters map[string]any `json:"parameters,omitempty"`
	ActorName  *string        `json:"actor_name,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// HistoryRecordFromDomain converts a domain history record to a response.
func HistoryRecordFromDomain(rec domain.HistoryRecord) HistoryRecordResponse {
	return HistoryRecordResponse{
		Sequence:   rec.Sequence,
		MessageKey: rec.MessageKey,
		Kind:       rec.Kind,
		Parameters: rec.Parameters,
		ActorName:  rec.ActorName,
		RecordedAt: rec.RecordedAt,
	}
}

// HistoryFromDomain converts domain history records to responses.
func HistoryFromDomain(records []domain.HistoryRecord) []HistoryRecordResponse {
	if len(records) == 0 {
		return nil
	}
	result := make([]HistoryRecordResponse, len(records))
	for i, rec := range records {
		result[i] = HistoryRecordFromDomain(rec)
	}
	return result
}

// NetworkResponse represents a crypto network in API responses.
type NetworkResponse struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	AddressPattern string `json:"address_pattern"`
}

// NetworkFromDomain converts a domain network to a response.
func NetworkFromDomain(n *domain.Network) *NetworkResponse {
	return &NetworkResponse{
		Code:           n.Code,
		Name:           n.Name,
		AddressPattern: n.AddressPattern,
	}
}

// NetworksFromDomain converts domain networks to responses.
func NetworksFromDomain(networks []*domain.Network) []*NetworkResponse {
	result := make([]*NetworkResponse, len(networks))
	for i, n := range networks {
		result[i] = NetworkFromDomain(n)
	}
	return result
}

// RateResponse represents an exchange rate in API responses.
type RateResponse struct {
	Base  string          `json:"base"`
	Quote string          `json:"quote"`
	Rate  decimal.Decimal `json:"rate"`
}
