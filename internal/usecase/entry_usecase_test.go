package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/payouts/internal/domain"
	"github.com/iho/payouts/internal/usecase"
	"github.com/iho/payouts/internal/usecase/mocks"
)

const testIBAN = "TR330006100519786457841326"

type stubCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *stubCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (c *stubCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

type stubProvider struct {
	rate decimal.Decimal
	err  error
}

func (p *stubProvider) FetchRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	return p.rate, p.err
}

type fixture struct {
	uc       *usecase.EntryUseCase
	entries  *mocks.MockEntryRepository
	history  *mocks.MockHistoryRepository
	networks *mocks.MockNetworkRepository
	txm      *mocks.MockTransactionManager
	provider *stubProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	iban, err := domain.NewIBANValidator("TR", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	provider := &stubProvider{rate: decimal.RequireFromString("30")}
	rates := usecase.NewRateService(
		&stubCache{data: make(map[string][]byte)},
		provider,
		decimal.RequireFromString("30"),
		time.Hour,
		zerolog.Nop(),
	)

	entries := mocks.NewMockEntryRepository()
	history := mocks.NewMockHistoryRepository()
	networks := mocks.NewMockNetworkRepository()
	networks.Seed(&domain.Network{
		Code:           "eth",
		Name:           "Ethereum",
		AddressPattern: `^0x[0-9a-fA-F]{40}$`,
	})

	txm := mocks.NewMockTransactionManager()

	uc := usecase.NewEntryUseCase(
		txm, entries, history, networks, rates, iban,
		mocks.NewMockIDGenerator(), mocks.NewMockRetrier(), "TRY",
	)

	return &fixture{
		uc:       uc,
		entries:  entries,
		history:  history,
		networks: networks,
		txm:      txm,
		provider: provider,
	}
}

func (f *fixture) seedEntry(kind domain.EntryKind, status string) *domain.LedgerEntry {
	entry := &domain.LedgerEntry{
		ID:          "entry-1",
		OwnerID:     "user-1",
		Kind:        kind,
		Status:      status,
		AmountLocal: decimal.RequireFromString("1000"),
		Destination: domain.Destination{Type: domain.DestinationBank, IBAN: testIBAN},
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
		UpdatedAt:   time.Now().UTC().Add(-time.Hour),
	}
	entry.SnapshotRate(decimal.RequireFromString("30"))
	f.entries.Seed(entry)

	return entry
}

func TestEntryUseCase_CreateEntry(t *testing.T) {
	f := newFixture(t)

	entry, err := f.uc.CreateEntry(context.Background(), usecase.CreateEntryInput{
		OwnerID:     "user-1",
		Kind:        domain.KindBankWithdrawal,
		AmountLocal: decimal.RequireFromString("1000"),
		Destination: domain.Destination{Type: domain.DestinationBank, IBAN: testIBAN, BankCode: "0006"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Status != "pending" {
		t.Errorf("status = %q, want pending", entry.Status)
	}

	if !entry.ExchangeRate.Equal(decimal.RequireFromString("30")) {
		t.Errorf("exchange rate = %s, want 30", entry.ExchangeRate)
	}

	if !entry.AmountUSD.Equal(decimal.RequireFromString("33.33")) {
		t.Errorf("amount USD = %s, want 33.33", entry.AmountUSD)
	}

	if len(entry.History) != 0 {
		t.Errorf("new entry history length = %d, want 0", len(entry.History))
	}

	if entry.ProcessedAt != nil {
		t.Errorf("new entry should not have processedAt, got %v", entry.ProcessedAt)
	}
}

func TestEntryUseCase_CreateEntry_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateEntryInput
		wantErr error
	}{
		{
			name: "zero amount",
			input: usecase.CreateEntryInput{
				Kind:        domain.KindBankWithdrawal,
				AmountLocal: decimal.Zero,
				Destination: domain.Destination{Type: domain.DestinationBank, IBAN: testIBAN},
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			input: usecase.CreateEntryInput{
				Kind:        domain.KindBankWithdrawal,
				AmountLocal: decimal.RequireFromString("-5"),
				Destination: domain.Destination{Type: domain.DestinationBank, IBAN: testIBAN},
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown kind",
			input: usecase.CreateEntryInput{
				Kind:        "transfer",
				AmountLocal: decimal.RequireFromString("10"),
				Destination: domain.Destination{Type: domain.DestinationBank, IBAN: testIBAN},
			},
			wantErr: domain.ErrInvalidKind,
		},
		{
			name: "bad IBAN checksum",
			input: usecase.CreateEntryInput{
				Kind:        domain.KindBankWithdrawal,
				AmountLocal: decimal.RequireFromString("10"),
				Destination: domain.Destination{Type: domain.DestinationBank, IBAN: "TR330006100519786457841327"},
			},
			wantErr: domain.ErrInvalidIBAN,
		},
		{
			name: "crypto entry with bank destination",
			input: usecase.CreateEntryInput{
				Kind:        domain.KindCryptoWithdrawal,
				AmountLocal: decimal.RequireFromString("10"),
				Destination: domain.Destination{Type: domain.DestinationBank, IBAN: testIBAN},
			},
			wantErr: domain.ErrMissingDestination,
		},
		{
			name: "unknown network",
			input: usecase.CreateEntryInput{
				Kind:        domain.KindCryptoWithdrawal,
				AmountLocal: decimal.RequireFromString("10"),
				Destination: domain.Destination{Type: domain.DestinationCrypto, Address: "0xabc", NetworkCode: "doge"},
			},
			wantErr: domain.ErrNetworkNotFound,
		},
		{
			name: "address fails network pattern",
			input: usecase.CreateEntryInput{
				Kind:        domain.KindCryptoWithdrawal,
				AmountLocal: decimal.RequireFromString("10"),
				Destination: domain.Destination{Type: domain.DestinationCrypto, Address: "0xshort", NetworkCode: "eth"},
			},
			wantErr: domain.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.uc.CreateEntry(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateEntry() error = %v, want %v", err, tt.wantErr)
			}

			// Validation failures must never persist anything.
			listed, _ := f.entries.List(context.Background(), usecase.EntryFilter{})
			if len(listed) != 0 {
				t.Fatalf("expected no persisted entries, got %d", len(listed))
			}
		})
	}
}

func TestEntryUseCase_CreateEntry_CryptoDestination(t *testing.T) {
	f := newFixture(t)

	entry, err := f.uc.CreateEntry(context.Background(), usecase.CreateEntryInput{
		OwnerID:     "user-1",
		Kind:        domain.KindCryptoWithdrawal,
		AmountLocal: decimal.RequireFromString("500"),
		Destination: domain.Destination{
			Type:        domain.DestinationCrypto,
			Address:     "0x52908400098527886E0F7030069857D2E4169EE7",
			NetworkCode: "eth",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Destination.NetworkCode != "eth" {
		t.Errorf("network = %q, want eth", entry.Destination.NetworkCode)
	}
}

func TestEntryUseCase_CreateEntry_ProviderDownUsesFallback(t *testing.T) {
	f := newFixture(t)
	f.provider.err = errors.New("provider timeout")

	entry, err := f.uc.CreateEntry(context.Background(), usecase.CreateEntryInput{
		OwnerID:     "user-1",
		Kind:        domain.KindBankWithdrawal,
		AmountLocal: decimal.RequireFromString("1000"),
		Destination: domain.Destination{Type: domain.DestinationBank, IBAN: testIBAN},
	})
	if err != nil {
		t.Fatalf("provider outage must not block creation, got %v", err)
	}

	if !entry.ExchangeRate.Equal(decimal.RequireFromString("30")) {
		t.Errorf("exchange rate = %s, want fallback 30", entry.ExchangeRate)
	}
}

func TestEntryUseCase_SetTransactionStatus_PendingToCompleted(t *testing.T) {
	f := newFixture(t)
	f.seedEntry(domain.KindBankWithdrawal, "pending")

	admin := &domain.User{ID: "admin-1", Name: "Jane Admin", Role: domain.RoleAdmin}

	entry, err := f.uc.SetTransactionStatus(context.Background(), "entry-1", domain.TransactionCompleted, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Status != "completed" {
		t.Errorf("status = %q, want completed", entry.Status)
	}

	if entry.ProcessedAt == nil {
		t.Error("processedAt should be set on terminal transition")
	}

	records, err := f.uc.GetHistory(context.Background(), "entry-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("history length = %d, want 1", len(records))
	}

	rec := records[0]
	if rec.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", rec.Sequence)
	}
	if rec.Kind != domain.HistoryStatusChange {
		t.Errorf("kind = %q, want status_change", rec.Kind)
	}
	if rec.Parameters["old"] != "pending" || rec.Parameters["new"] != "completed" {
		t.Errorf("parameters = %v, want old=pending new=completed", rec.Parameters)
	}
	if rec.ActorName == nil || *rec.ActorName != "Jane Admin" {
		t.Errorf("actor = %v, want Jane Admin", rec.ActorName)
	}
}

func TestEntryUseCase_SetTransactionStatus_NoOp(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedEntry(domain.KindBankWithdrawal, "pending")
	before := seeded.UpdatedAt

	entry, err := f.uc.SetTransactionStatus(context.Background(), "entry-1", domain.TransactionPending, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !entry.UpdatedAt.Equal(before) {
		t.Error("no-op transition must not touch updatedAt")
	}

	if entry.ProcessedAt != nil {
		t.Error("no-op transition must not set processedAt")
	}

	records, _ := f.uc.GetHistory(context.Background(), "entry-1")
	if len(records) != 0 {
		t.Fatalf("no-op transition appended %d history records", len(records))
	}
}

func TestEntryUseCase_SetStatus_MembershipGate(t *testing.T) {
	f := newFixture(t)
	f.seedEntry(domain.KindBankWithdrawal, "pending")

	// "approved" is a withdrawal status, never valid for transactions.
	_, err := f.uc.SetTransactionStatus(context.Background(), "entry-1", domain.TransactionStatus("approved"), nil)
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("error = %v, want ErrInvalidStatus", err)
	}

	// "cancelled" is a transaction status, never valid for withdrawals.
	_, err = f.uc.SetWithdrawalStatus(context.Background(), "entry-1", domain.WithdrawalStatus("cancelled"), nil)
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("error = %v, want ErrInvalidStatus", err)
	}

	// No mutation may occur on a rejected transition.
	entry, _ := f.uc.GetEntry(context.Background(), "entry-1")
	if entry.Status != "pending" {
		t.Errorf("status = %q, want pending", entry.Status)
	}

	records, _ := f.uc.GetHistory(context.Background(), "entry-1")
	if len(records) != 0 {
		t.Errorf("rejected transition appended %d history records", len(records))
	}
}

func TestEntryUseCase_SetStatus_CrossKindGate(t *testing.T) {
	f := newFixture(t)
	f.seedEntry(domain.KindWithdrawal, "pending")

	// A withdrawal entry must reject members of the transaction-only set.
	_, err := f.uc.SetTransactionStatus(context.Background(), "entry-1", domain.TransactionCancelled, nil)
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("error = %v, want ErrInvalidStatus", err)
	}
}

func TestEntryUseCase_SetWithdrawalStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        domain.WithdrawalStatus
		wantProcessed bool
	}{
		{"approved is not terminal", domain.WithdrawalApproved, false},
		{"rejected is terminal", domain.WithdrawalRejected, true},
		{"completed is terminal", domain.WithdrawalCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedEntry(domain.KindWithdrawal, "pending")

			entry, err := f.uc.SetWithdrawalStatus(context.Background(), "entry-1", tt.status, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if entry.Status != string(tt.status) {
				t.Errorf("status = %q, want %q", entry.Status, tt.status)
			}

			if (entry.ProcessedAt != nil) != tt.wantProcessed {
				t.Errorf("processedAt set = %v, want %v", entry.ProcessedAt != nil, tt.wantProcessed)
			}
		})
	}
}

func TestEntryUseCase_SetStatus_ReversalKeepsProcessedAt(t *testing.T) {
	f := newFixture(t)
	f.seedEntry(domain.KindBankWithdrawal, "pending")

	if _, err := f.uc.SetTransactionStatus(context.Background(), "entry-1", domain.TransactionCompleted, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Backward transitions out of a terminal state are permitted and do not
	// clear the processed timestamp.
	entry, err := f.uc.SetTransactionStatus(context.Background(), "entry-1", domain.TransactionPending, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Status != "pending" {
		t.Errorf("status = %q, want pending", entry.Status)
	}

	if entry.ProcessedAt == nil {
		t.Error("processedAt must not be cleared on reversal")
	}

	records, _ := f.uc.GetHistory(context.Background(), "entry-1")
	if len(records) != 2 {
		t.Fatalf("history length = %d, want 2", len(records))
	}
	if records[1].Parameters["old"] != "completed" || records[1].Parameters["new"] != "pending" {
		t.Errorf("reversal parameters = %v", records[1].Parameters)
	}
}

func TestEntryUseCase_AppendHistory_Sequences(t *testing.T) {
	f := newFixture(t)
	f.seedEntry(domain.KindBankWithdrawal, "pending")

	const n = 5
	for i := 0; i < n; i++ {
		rec, err := f.uc.AppendHistory(context.Background(), usecase.AppendHistoryInput{
			EntryID:    "entry-1",
			MessageKey: "entry.history.note",
			Kind:       domain.HistoryInfo,
		})
		if err != nil {
			t.Fatalf("append %d: unexpected error: %v", i, err)
		}

		if rec.Sequence != int64(i)+1 {
			t.Fatalf("append %d: sequence = %d, want %d", i, rec.Sequence, i+1)
		}
	}

	records, err := f.uc.GetHistory(context.Background(), "entry-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != n {
		t.Fatalf("history length = %d, want %d", len(records), n)
	}

	for i, rec := range records {
		if rec.Sequence != int64(i)+1 {
			t.Errorf("record %d has sequence %d", i, rec.Sequence)
		}
		if rec.MessageKey != "entry.history.note" {
			t.Errorf("record %d message key mutated: %q", i, rec.MessageKey)
		}
	}
}

func TestEntryUseCase_AppendHistory_ConcurrentAppendsSerialized(t *testing.T) {
	f := newFixture(t)
	f.txm.Serialize = true
	f.seedEntry(domain.KindBankWithdrawal, "pending")

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.AppendHistory(context.Background(), usecase.AppendHistoryInput{
				EntryID:    "entry-1",
				MessageKey: "entry.history.note",
				Kind:       domain.HistoryInfo,
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, _ := f.uc.GetHistory(context.Background(), "entry-1")
	if len(records) != 2 {
		t.Fatalf("history length = %d, want 2", len(records))
	}

	seen := map[int64]bool{}
	for _, rec := range records {
		seen[rec.Sequence] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("sequences = %v, want {1, 2}", seen)
	}
}

func TestEntryUseCase_UpdateNotes(t *testing.T) {
	f := newFixture(t)
	f.seedEntry(domain.KindBankWithdrawal, "pending")

	admin := &domain.User{ID: "admin-1", Name: "Jane Admin", Role: domain.RoleAdmin}

	entry, err := f.uc.UpdateNotes(context.Background(), "entry-1", "verified by phone", admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Notes != "verified by phone" {
		t.Errorf("notes = %q", entry.Notes)
	}

	records, _ := f.uc.GetHistory(context.Background(), "entry-1")
	if len(records) != 1 || records[0].Kind != domain.HistoryNotesUpdate {
		t.Fatalf("expected one notes_update record, got %v", records)
	}
}

func TestEntryUseCase_UpdateAmount_RederivesUSD(t *testing.T) {
	f := newFixture(t)
	f.seedEntry(domain.KindBankWithdrawal, "pending")

	entry, err := f.uc.UpdateAmount(context.Background(), "entry-1", decimal.RequireFromString("500"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !entry.AmountUSD.Equal(decimal.RequireFromString("16.67")) {
		t.Errorf("amount USD = %s, want 16.67", entry.AmountUSD)
	}

	records, _ := f.uc.GetHistory(context.Background(), "entry-1")
	if len(records) != 1 || records[0].Kind != domain.HistoryAmountUpdate {
		t.Fatalf("expected one amount_update record, got %v", records)
	}
	if records[0].Parameters["old"] != "1000" || records[0].Parameters["new"] != "500" {
		t.Errorf("parameters = %v", records[0].Parameters)
	}

	_, err = f.uc.UpdateAmount(context.Background(), "entry-1", decimal.Zero, nil)
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("error = %v, want ErrInvalidAmount", err)
	}
}

func TestEntryUseCase_SetStatus_ConflictSurfacesAfterRetries(t *testing.T) {
	f := newFixture(t)
	f.seedEntry(domain.KindBankWithdrawal, "pending")

	f.history.AppendFunc = func(ctx context.Context, tx usecase.Transaction, rec *domain.HistoryRecord) error {
		return domain.ErrConflict
	}

	_, err := f.uc.SetTransactionStatus(context.Background(), "entry-1", domain.TransactionCompleted, nil)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}
