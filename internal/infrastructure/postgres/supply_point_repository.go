package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.SupplyPointRepository = (*SupplyPointRepo)(nil)

// SupplyPointRepo implementación de SupplyPointRepository sobre PostgreSQL
// (usable con pool o tx).
type SupplyPointRepo struct {
	q Querier
}

// NewSupplyPointRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplyPointRepository(q Querier) *SupplyPointRepo {
	return &SupplyPointRepo{q: q}
}

const supplyPointColumns = `id, code, name, type, location_id, COALESCE(supplied_by_id::text, ''), last_reported, is_active`

func scanSupplyPoint(row pgx.Row) (*entity.SupplyPoint, error) {
	var sp entity.SupplyPoint
	err := row.Scan(&sp.ID, &sp.Code, &sp.Name, &sp.Type, &sp.LocationID,
		&sp.SuppliedByID, &sp.LastReported, &sp.IsActive)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *SupplyPointRepo) ByID(ctx context.Context, id string) (*entity.SupplyPoint, error) {
	query := `SELECT ` + supplyPointColumns + ` FROM supply_points WHERE id = $1`
	sp, err := scanSupplyPoint(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("punto %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get supply point: %w", err)
	}
	return sp, nil
}

func (r *SupplyPointRepo) ByCode(ctx context.Context, code string, typeFilter entity.LocationType) (*entity.SupplyPoint, error) {
	query := `SELECT ` + supplyPointColumns + ` FROM supply_points WHERE code = $1 AND ($2 = '' OR type = $2)`
	sp, err := scanSupplyPoint(r.q.QueryRow(ctx, query, code, string(typeFilter)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("punto %s: %w", code, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get supply point by code: %w", err)
	}
	return sp, nil
}

func (r *SupplyPointRepo) ByLocationIDs(ctx context.Context, locationIDs []string, typeFilter entity.LocationType) ([]*entity.SupplyPoint, error) {
	query := `
		SELECT ` + supplyPointColumns + `
		FROM supply_points
		WHERE location_id = ANY($1) AND ($2 = '' OR type = $2)
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, locationIDs, string(typeFilter))
	if err != nil {
		return nil, fmt.Errorf("supply points by locations: %w", err)
	}
	defer rows.Close()
	return collectSupplyPoints(rows)
}

func (r *SupplyPointRepo) SuppliedBy(ctx context.Context, parentID string) ([]*entity.SupplyPoint, error) {
	query := `SELECT ` + supplyPointColumns + ` FROM supply_points WHERE supplied_by_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("supplied by: %w", err)
	}
	defer rows.Close()
	return collectSupplyPoints(rows)
}

func (r *SupplyPointRepo) Create(ctx context.Context, sp *entity.SupplyPoint) error {
	query := `
		INSERT INTO supply_points (id, code, name, type, location_id, supplied_by_id, last_reported, is_active)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8)`
	_, err := r.q.Exec(ctx, query, sp.ID, sp.Code, sp.Name, string(sp.Type),
		sp.LocationID, sp.SuppliedByID, sp.LastReported, sp.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create supply point: %w", err)
	}
	return nil
}

func (r *SupplyPointRepo) UpdateLastReported(ctx context.Context, id string, ts time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE supply_points SET last_reported = $2 WHERE id = $1`, id, ts)
	if err != nil {
		return fmt.Errorf("update last_reported: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("punto %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func collectSupplyPoints(rows pgx.Rows) ([]*entity.SupplyPoint, error) {
	var out []*entity.SupplyPoint
	for rows.Next() {
		sp, err := scanSupplyPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supply point: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
