package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.SupplyPointStatusRepository = (*StatusRepo)(nil)

// StatusRepo implementación de SupplyPointStatusRepository sobre PostgreSQL.
// Log append-only.
type StatusRepo struct {
	q Querier
}

func NewStatusRepository(q Querier) *StatusRepo {
	return &StatusRepo{q: q}
}

func (r *StatusRepo) Append(ctx context.Context, s *entity.SupplyPointStatus) error {
	query := `
		INSERT INTO supply_point_statuses (id, supply_point_id, status_type, status_value, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, s.ID, s.SupplyPointID, s.StatusType, s.StatusValue, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("append supply point status: %w", err)
	}
	return nil
}

func (r *StatusRepo) BySupplyPoint(ctx context.Context, supplyPointID string) ([]*entity.SupplyPointStatus, error) {
	query := `
		SELECT id, supply_point_id, status_type, status_value, created_at
		FROM supply_point_statuses
		WHERE supply_point_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, supplyPointID)
	if err != nil {
		return nil, fmt.Errorf("list supply point statuses: %w", err)
	}
	defer rows.Close()

	var out []*entity.SupplyPointStatus
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supply point status: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStatus(row pgx.Row) (*entity.SupplyPointStatus, error) {
	var s entity.SupplyPointStatus
	err := row.Scan(&s.ID, &s.SupplyPointID, &s.StatusType, &s.StatusValue, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
