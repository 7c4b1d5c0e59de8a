package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL
// (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, code, name, type, COALESCE(parent_id::text, ''), is_active`

func scanLocation(row pgx.Row) (*entity.LocationNode, error) {
	var n entity.LocationNode
	err := row.Scan(&n.ID, &n.Code, &n.Name, &n.Type, &n.ParentID, &n.IsActive)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *LocationRepo) ByID(ctx context.Context, id string) (*entity.LocationNode, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	n, err := scanLocation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return n, nil
}

func (r *LocationRepo) ByCode(ctx context.Context, code string) (*entity.LocationNode, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE code = $1`
	n, err := scanLocation(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ubicación %s: %w", code, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get location by code: %w", err)
	}
	return n, nil
}

func (r *LocationRepo) ChildrenOf(ctx context.Context, parentID string) ([]*entity.LocationNode, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE parent_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("children of: %w", err)
	}
	defer rows.Close()

	var out []*entity.LocationNode
	for rows.Next() {
		n, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
