package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payouts/internal/domain"
	"github.com/iho/payouts/internal/usecase"
)

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.LedgerEntry

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id, status string, processedAt *time.Time, updatedAt time.Time) error
	UpdateNotesFunc      func(ctx context.Context, tx usecase.Transaction, id, notes string, updatedAt time.Time) error
	UpdateAmountFunc     func(ctx context.Context, tx usecase.Transaction, id string, amountLocal, amountUSD, rate decimal.Decimal, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.LedgerEntry),
	}
}

// Seed stores an entry directly, bypassing Create.
func (m *MockEntryRepository) Seed(entry *domain.LedgerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id, status string, processedAt *time.Time, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, processedAt, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.Status = status
		e.ProcessedAt = processedAt
		e.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockEntryRepository) UpdateNotes(ctx context.Context, tx usecase.Transaction, id, notes string, updatedAt time.Time) error {
	if m.UpdateNotesFunc != nil {
		return m.UpdateNotesFunc(ctx, tx, id, notes, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.Notes = notes
		e.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockEntryRepository) UpdateAmount(ctx context.Context, tx usecase.Transaction, id string, amountLocal, amountUSD, rate decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateAmountFunc != nil {
		return m.UpdateAmountFunc(ctx, tx, id, amountLocal, amountUSD, rate, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.AmountLocal = amountLocal
		e.AmountUSD = amountUSD
		e.ExchangeRate = rate
		e.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockEntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if filter.OwnerID != "" && e.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && e.Kind != filter.Kind {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MockHistoryRepository is a mock implementation of HistoryRepository.
type MockHistoryRepository struct {
	mu      sync.RWMutex
	records map[string][]domain.HistoryRecord

	AppendFunc      func(ctx context.Context, tx usecase.Transaction, rec *domain.HistoryRecord) error
	ListByEntryFunc func(ctx context.Context, entryID string) ([]domain.HistoryRecord, error)
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{
		records: make(map[string][]domain.HistoryRecord),
	}
}

func (m *MockHistoryRepository) Append(ctx context.Context, tx usecase.Transaction, rec *domain.HistoryRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.EntryID] = append(m.records[rec.EntryID], *rec)
	return nil
}

func (m *MockHistoryRepository) ListByEntry(ctx context.Context, entryID string) ([]domain.HistoryRecord, error) {
	if m.ListByEntryFunc != nil {
		return m.ListByEntryFunc(ctx, entryID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.HistoryRecord(nil), m.records[entryID]...), nil
}

// MockNetworkRepository is a mock implementation of NetworkRepository.
type MockNetworkRepository struct {
	mu       sync.RWMutex
	networks map[string]*domain.Network

	GetByCodeFunc func(ctx context.Context, code string) (*domain.Network, error)
	ListFunc      func(ctx context.Context) ([]*domain.Network, error)
}

func NewMockNetworkRepository() *MockNetworkRepository {
	return &MockNetworkRepository{
		networks: make(map[string]*domain.Network),
	}
}

func (m *MockNetworkRepository) Seed(network *domain.Network) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.networks[network.Code] = network
}

func (m *MockNetworkRepository) GetByCode(ctx context.Context, code string) (*domain.Network, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n, ok := m.networks[code]; ok {
		return n, nil
	}
	return nil, domain.ErrNetworkNotFound
}

func (m *MockNetworkRepository) List(ctx context.Context) ([]*domain.Network, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var networks []*domain.Network
	for _, n := range m.networks {
		networks = append(networks, n)
	}
	return networks, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// With Serialize set, Begin takes a mutex that is released when the
// transaction finishes, mimicking the row-lock serialization the postgres
// adapter provides.
type MockTransactionManager struct {
	Serialize bool
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu sync.Mutex
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	if m.Serialize {
		m.mu.Lock()
		tx.onDone = m.mu.Unlock
	}
	return tx, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	once   sync.Once
	onDone func()
}

func (m *MockTransaction) finish() {
	m.once.Do(func() {
		if m.onDone != nil {
			m.onDone()
		}
	})
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	defer m.finish()
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	defer m.finish()
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + string(rune('0'+m.counter))
}

// MockRetrier is a mock implementation of Retrier that runs the operation
// once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
