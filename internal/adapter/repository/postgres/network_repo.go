package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/payouts/internal/domain"
)

// NetworkRepository implements usecase.NetworkRepository.
type NetworkRepository struct {
	pool *pgxpool.Pool
}

// NewNetworkRepository creates a new NetworkRepository.
func NewNetworkRepository(pool *pgxpool.Pool) *NetworkRepository {
	return &NetworkRepository{pool: pool}
}

// GetByCode retrieves a network by its code.
func (r *NetworkRepository) GetByCode(ctx context.Context, code string) (*domain.Network, error) {
	query := `SELECT code, name, address_pattern, created_at FROM networks WHERE code = $1`

	var (
		network   domain.Network
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, code).Scan(
		&network.Code,
		&network.Name,
		&network.AddressPattern,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNetworkNotFound
		}
		return nil, err
	}

	network.CreatedAt = createdAt.Time

	return &network, nil
}

// List retrieves all supported networks.
func (r *NetworkRepository) List(ctx context.Context) ([]*domain.Network, error) {
	query := `SELECT code, name, address_pattern, created_at FROM networks ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var networks []*domain.Network
	for rows.Next() {
		var (
			network   domain.Network
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(&network.Code, &network.Name, &network.AddressPattern, &createdAt)
		if err != nil {
			return nil, err
		}

		network.CreatedAt = createdAt.Time
		networks = append(networks, &network)
	}

	return networks, rows.Err()
}
