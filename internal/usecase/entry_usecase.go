package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payouts/internal/domain"
)

// EntryUseCase handles the ledger-entry lifecycle: creation with a rate
// snapshot, status transitions, and the append-only history log.
type EntryUseCase struct {
	txManager   TransactionManager
	entryRepo   EntryRepository
	historyRepo HistoryRepository
	networkRepo NetworkRepository
	rates       *RateService
	iban        *domain.IBANValidator
	idGen       IDGenerator
	retrier     Retrier
	currency    string
}

// NewEntryUseCase creates a new EntryUseCase. currency is the local currency
// entries are denominated in (e.g. "TRY").
func NewEntryUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	historyRepo HistoryRepository,
	networkRepo NetworkRepository,
	rates *RateService,
	iban *domain.IBANValidator,
	idGen IDGenerator,
	retrier Retrier,
	currency string,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:   txManager,
		entryRepo:   entryRepo,
		historyRepo: historyRepo,
		networkRepo: networkRepo,
		rates:       rates,
		iban:        iban,
		idGen:       idGen,
		retrier:     retrier,
		currency:    currency,
	}
}

// CreateEntryInput represents input for creating a ledger entry.
type CreateEntryInput struct {
	OwnerID     string
	Kind        domain.EntryKind
	AmountLocal decimal.Decimal
	Destination domain.Destination
	Notes       string
}

// CreateEntry validates the destination, snapshots the current exchange
// rate, and persists a pending entry with an empty history. Validation runs
// before any persistence; nothing is partially applied.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.LedgerEntry, error) {
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, input.Kind)
	}

	if input.AmountLocal.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if err := uc.validateDestination(ctx, input.Kind, input.Destination); err != nil {
		return nil, err
	}

	rate := uc.rates.GetCurrentRate(ctx, uc.currency, quoteCurrency)

	now := time.Now().UTC()
	entry := &domain.LedgerEntry{
		ID:          uc.idGen.Generate(),
		OwnerID:     input.OwnerID,
		Kind:        input.Kind,
		Status:      string(domain.TransactionPending),
		AmountLocal: input.AmountLocal,
		Destination: input.Destination,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	entry.SnapshotRate(rate)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *EntryUseCase) validateDestination(ctx context.Context, kind domain.EntryKind, dest domain.Destination) error {
	if err := dest.ValidateShape(); err != nil {
		return err
	}

	switch kind {
	case domain.KindCryptoWithdrawal:
		if dest.Type != domain.DestinationCrypto {
			return fmt.Errorf("%w: %s entries require a crypto destination", domain.ErrMissingDestination, kind)
		}

		network, err := uc.networkRepo.GetByCode(ctx, dest.NetworkCode)
		if err != nil {
			return err
		}

		return domain.ValidateAddress(dest.Address, network.AddressPattern)
	default:
		// Bank withdrawals and legacy withdrawals are always bank-destined.
		if dest.Type != domain.DestinationBank {
			return fmt.Errorf("%w: %s entries require a bank destination", domain.ErrMissingDestination, kind)
		}

		return uc.iban.Validate(dest.IBAN)
	}
}

// SetTransactionStatus transitions a bank/crypto transaction entry.
func (uc *EntryUseCase) SetTransactionStatus(ctx context.Context, entryID string, status domain.TransactionStatus, actor *domain.User) (*domain.LedgerEntry, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	return uc.setStatus(ctx, entryID, string(status), actor)
}

// SetWithdrawalStatus transitions a legacy withdrawal entry.
func (uc *EntryUseCase) SetWithdrawalStatus(ctx context.Context, entryID string, status domain.WithdrawalStatus, actor *domain.User) (*domain.LedgerEntry, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	return uc.setStatus(ctx, entryID, string(status), actor)
}

// setStatus performs the gated transition: the entry row is locked, the
// status write and the status_change history record commit together or not
// at all. Re-applying the current status is a no-op that writes nothing.
func (uc *EntryUseCase) setStatus(ctx context.Context, entryID, newStatus string, actor *domain.User) (*domain.LedgerEntry, error) {
	var result *domain.LedgerEntry

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, entryID)
		if err != nil {
			return err
		}

		if !entry.Kind.ValidStatus(newStatus) {
			return fmt.Errorf("%w: %q is not valid for kind %s", domain.ErrInvalidStatus, newStatus, entry.Kind)
		}

		if entry.Status == newStatus {
			result = entry
			return nil
		}

		now := time.Now().UTC()
		previous := entry.Status

		entry.Status = newStatus
		entry.UpdatedAt = now
		if domain.TerminalStatus(newStatus) {
			processedAt := now
			entry.ProcessedAt = &processedAt
		}

		if err := uc.entryRepo.UpdateStatus(ctx, tx, entry.ID, newStatus, entry.ProcessedAt, now); err != nil {
			return err
		}

		rec := entry.Append("entry.history.status_changed", domain.HistoryStatusChange,
			map[string]any{"old": previous, "new": newStatus}, domain.ActorName(actor), now)

		if err := uc.historyRepo.Append(ctx, tx, &rec); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AppendHistoryInput represents input for appending a history record.
type AppendHistoryInput struct {
	EntryID    string
	MessageKey string
	Kind       string
	Parameters map[string]any
	Actor      *domain.User
}

// AppendHistory appends one immutable record to an entry's history. The
// read of the current length and the write of the new record are serialized
// per entry by the row lock; a lost update is therefore impossible.
func (uc *EntryUseCase) AppendHistory(ctx context.Context, input AppendHistoryInput) (*domain.HistoryRecord, error) {
	var result *domain.HistoryRecord

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, input.EntryID)
		if err != nil {
			return err
		}

		rec := entry.Append(input.MessageKey, input.Kind, input.Parameters,
			domain.ActorName(input.Actor), time.Now().UTC())

		if err := uc.historyRepo.Append(ctx, tx, &rec); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateNotes replaces the entry's free-text notes and records the change.
func (uc *EntryUseCase) UpdateNotes(ctx context.Context, entryID, notes string, actor *domain.User) (*domain.LedgerEntry, error) {
	var result *domain.LedgerEntry

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, entryID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		entry.Notes = notes
		entry.UpdatedAt = now

		if err := uc.entryRepo.UpdateNotes(ctx, tx, entry.ID, notes, now); err != nil {
			return err
		}

		rec := entry.Append("entry.history.notes_updated", domain.HistoryNotesUpdate,
			map[string]any{"notes": notes}, domain.ActorName(actor), now)

		if err := uc.historyRepo.Append(ctx, tx, &rec); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateAmount changes the local amount. The exchange rate is re-snapshotted
// and the USD amount rederived, since the derived value is only recomputed
// when the local amount changes.
func (uc *EntryUseCase) UpdateAmount(ctx context.Context, entryID string, amountLocal decimal.Decimal, actor *domain.User) (*domain.LedgerEntry, error) {
	if amountLocal.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	rate := uc.rates.GetCurrentRate(ctx, uc.currency, quoteCurrency)

	var result *domain.LedgerEntry

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, entryID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		previous := entry.AmountLocal

		entry.AmountLocal = amountLocal
		entry.SnapshotRate(rate)
		entry.UpdatedAt = now

		if err := uc.entryRepo.UpdateAmount(ctx, tx, entry.ID, entry.AmountLocal, entry.AmountUSD, entry.ExchangeRate, now); err != nil {
			return err
		}

		rec := entry.Append("entry.history.amount_updated", domain.HistoryAmountUpdate,
			map[string]any{"old": previous.String(), "new": amountLocal.String()}, domain.ActorName(actor), now)

		if err := uc.historyRepo.Append(ctx, tx, &rec); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetEntry retrieves an entry with its history.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntries lists entries matching the filter.
func (uc *EntryUseCase) ListEntries(ctx context.Context, filter EntryFilter) ([]*domain.LedgerEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}

	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	return uc.entryRepo.List(ctx, filter)
}

// GetHistory returns the ordered timeline of an entry.
func (uc *EntryUseCase) GetHistory(ctx context.Context, entryID string) ([]domain.HistoryRecord, error) {
	return uc.historyRepo.ListByEntry(ctx, entryID)
}

// ListNetworks lists the supported crypto networks.
func (uc *EntryUseCase) ListNetworks(ctx context.Context) ([]*domain.Network, error) {
	return uc.networkRepo.List(ctx)
}
