package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payouts/internal/domain"
)

// EntryRepository defines data access for ledger entries. GetByID and
// GetByIDForUpdate return entries with their history loaded, ordered by
// sequence.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LedgerEntry, error)
	UpdateStatus(ctx context.Context, tx Transaction, id, status string, processedAt *time.Time, updatedAt time.Time) error
	UpdateNotes(ctx context.Context, tx Transaction, id, notes string, updatedAt time.Time) error
	UpdateAmount(ctx context.Context, tx Transaction, id string, amountLocal, amountUSD, rate decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, filter EntryFilter) ([]*domain.LedgerEntry, error)
}

// EntryFilter defines filters for listing entries.
type EntryFilter struct {
	OwnerID string
	Status  string
	Kind    domain.EntryKind
	Limit   int
	Offset  int
}

// HistoryRepository defines data access for history records. Records are
// append-only; there is no update or delete.
type HistoryRepository interface {
	Append(ctx context.Context, tx Transaction, rec *domain.HistoryRecord) error
	ListByEntry(ctx context.Context, entryID string) ([]domain.HistoryRecord, error)
}

// NetworkRepository defines data access for crypto network metadata.
type NetworkRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Network, error)
	List(ctx context.Context) ([]*domain.Network, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on retryable storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RateProvider fetches an exchange rate from an external source.
type RateProvider interface {
	FetchRate(ctx context.Context, base, quote string) (decimal.Decimal, error)
}
