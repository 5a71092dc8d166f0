package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/payouts/internal/domain"
	"github.com/iho/payouts/internal/usecase"
)

const entryColumns = `
	id, owner_id, kind, status,
	amount_local, amount_usd, exchange_rate,
	destination_type, iban, bank_code, address, network_code,
	notes, processed_at, created_at, updated_at
`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts a new entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		entry.OwnerID,
		string(entry.Kind),
		entry.Status,
		decimalToNumeric(entry.AmountLocal),
		decimalToNumeric(entry.AmountUSD),
		decimalToNumeric(entry.ExchangeRate),
		string(entry.Destination.Type),
		entry.Destination.IBAN,
		entry.Destination.BankCode,
		entry.Destination.Address,
		entry.Destination.NetworkCode,
		entry.Notes,
		timePtrToPgTimestamptz(entry.ProcessedAt),
		timeToPgTimestamptz(entry.CreatedAt),
		timeToPgTimestamptz(entry.UpdatedAt),
	)

	return err
}

// GetByID retrieves an entry with its full history.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	entry.History, err = listHistory(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// GetByIDForUpdate retrieves an entry with its history, locking the entry row
// for the duration of the transaction.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 FOR UPDATE`

	entry, err := scanEntry(pgxTx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	entry.History, err = listHistory(ctx, pgxTx, id)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// UpdateStatus writes a status transition.
func (r *EntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id, status string, processedAt *time.Time, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE entries
		SET status = $2, processed_at = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, id, status, timePtrToPgTimestamptz(processedAt), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// UpdateNotes replaces the entry's notes.
func (r *EntryRepository) UpdateNotes(ctx context.Context, tx usecase.Transaction, id, notes string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE entries SET notes = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, notes, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// UpdateAmount writes the local amount together with the re-snapshotted rate
// and the rederived USD amount.
func (r *EntryRepository) UpdateAmount(ctx context.Context, tx usecase.Transaction, id string, amountLocal, amountUSD, rate decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE entries
		SET amount_local = $2, amount_usd = $3, exchange_rate = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, id,
		decimalToNumeric(amountLocal), decimalToNumeric(amountUSD), decimalToNumeric(rate),
		timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List retrieves entries matching the filter, newest first. History is not
// hydrated for lists.
func (r *EntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.OwnerID != "" {
		query += fmt.Sprintf(` AND owner_id = $%d`, argPos)
		args = append(args, filter.OwnerID)
		argPos++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argPos)
		args = append(args, filter.Status)
		argPos++
	}

	if filter.Kind != "" {
		query += fmt.Sprintf(` AND kind = $%d`, argPos)
		args = append(args, string(filter.Kind))
		argPos++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argPos)
		args = append(args, filter.Limit)
		argPos++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry                         domain.LedgerEntry
		kind, destType                string
		amountLocal, amountUSD, rate  pgtype.Numeric
		processedAt, createdAt, updAt pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.OwnerID,
		&kind,
		&entry.Status,
		&amountLocal,
		&amountUSD,
		&rate,
		&destType,
		&entry.Destination.IBAN,
		&entry.Destination.BankCode,
		&entry.Destination.Address,
		&entry.Destination.NetworkCode,
		&entry.Notes,
		&processedAt,
		&createdAt,
		&updAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	entry.Kind = domain.EntryKind(kind)
	entry.Destination.Type = domain.DestinationType(destType)
	entry.AmountLocal = numericToDecimal(amountLocal)
	entry.AmountUSD = numericToDecimal(amountUSD)
	entry.ExchangeRate = numericToDecimal(rate)
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updAt.Time

	if processedAt.Valid {
		t := processedAt.Time
		entry.ProcessedAt = &t
	}

	return &entry, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
