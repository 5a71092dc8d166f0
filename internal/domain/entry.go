package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind identifies what flavor of money movement an entry represents.
type EntryKind string

const (
	KindBankWithdrawal   EntryKind = "bank_withdrawal"
	KindCryptoWithdrawal EntryKind = "crypto_withdrawal"
	// KindWithdrawal is the legacy withdrawal request, always bank-destined
	// and carrying its own status set.
	KindWithdrawal EntryKind = "withdrawal"
)

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	switch k {
	case KindBankWithdrawal, KindCryptoWithdrawal, KindWithdrawal:
		return true
	}
	return false
}

// ValidStatus reports whether status belongs to the status set of kind k.
func (k EntryKind) ValidStatus(status string) bool {
	if k == KindWithdrawal {
		return WithdrawalStatus(status).Valid()
	}
	return TransactionStatus(status).Valid()
}

// LedgerEntry is a single withdrawal/transaction record representing money
// moving out of the platform. AmountUSD is derived from AmountLocal and the
// snapshot ExchangeRate; it is never set independently.
type LedgerEntry struct {
	ID           string
	OwnerID      string
	Kind         EntryKind
	Status       string
	AmountLocal  decimal.Decimal
	AmountUSD    decimal.Decimal
	ExchangeRate decimal.Decimal
	Destination  Destination
	Notes        string
	History      []HistoryRecord
	ProcessedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SnapshotRate captures rate as the entry's exchange rate and recomputes the
// USD-normalized amount. rate must be positive; it always originates from the
// rate service, which guarantees that.
func (e *LedgerEntry) SnapshotRate(rate decimal.Decimal) {
	e.ExchangeRate = rate
	e.AmountUSD = e.AmountLocal.DivRound(rate, 2)
}

// NextSequence returns the sequence number the next history record takes.
// Sequences are 1-based and strictly increasing.
func (e *LedgerEntry) NextSequence() int64 {
	return int64(len(e.History)) + 1
}

// Append builds a history record with the next sequence number and attaches
// it to the entry. Records are immutable once appended.
func (e *LedgerEntry) Append(messageKey, kind string, params map[string]any, actorName *string, now time.Time) HistoryRecord {
	rec := HistoryRecord{
		EntryID:    e.ID,
		Sequence:   e.NextSequence(),
		MessageKey: messageKey,
		Kind:       kind,
		Parameters: params,
		ActorName:  actorName,
		RecordedAt: now,
	}
	e.History = append(e.History, rec)

	return rec
}
