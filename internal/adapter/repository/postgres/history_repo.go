package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/payouts/internal/domain"
	"github.com/iho/payouts/internal/usecase"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// HistoryRepository implements usecase.HistoryRepository.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Append inserts one history record. The (entry_id, sequence) primary key
// rejects a duplicate sequence, so two writers racing on the same entry
// cannot both land on the same slot even without the row lock.
func (r *HistoryRepository) Append(ctx context.Context, tx usecase.Transaction, rec *domain.HistoryRecord) error {
	pgxTx := tx.(*Tx).PgxTx()

	var paramsJSON []byte
	if rec.Parameters != nil {
		var err error
		paramsJSON, err = json.Marshal(rec.Parameters)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO entry_history (entry_id, sequence, message_key, kind, parameters, actor_name, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, query,
		rec.EntryID,
		rec.Sequence,
		rec.MessageKey,
		rec.Kind,
		paramsJSON,
		rec.ActorName,
		timeToPgTimestamptz(rec.RecordedAt),
	)

	return err
}

// ListByEntry retrieves an entry's history ordered by sequence.
func (r *HistoryRepository) ListByEntry(ctx context.Context, entryID string) ([]domain.HistoryRecord, error) {
	return listHistory(ctx, r.pool, entryID)
}

func listHistory(ctx context.Context, q querier, entryID string) ([]domain.HistoryRecord, error) {
	query := `
		SELECT entry_id, sequence, message_key, kind, parameters, actor_name, recorded_at
		FROM entry_history
		WHERE entry_id = $1
		ORDER BY sequence ASC
	`

	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var (
			rec        domain.HistoryRecord
			paramsJSON []byte
			recordedAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&rec.EntryID,
			&rec.Sequence,
			&rec.MessageKey,
			&rec.Kind,
			&paramsJSON,
			&rec.ActorName,
			&recordedAt,
		)
		if err != nil {
			return nil, err
		}

		if paramsJSON != nil {
			_ = json.Unmarshal(paramsJSON, &rec.Parameters)
		}
		rec.RecordedAt = recordedAt.Time

		records = append(records, rec)
	}

	return records, rows.Err()
}
