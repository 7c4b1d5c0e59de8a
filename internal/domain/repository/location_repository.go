package repository

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// LocationRepository puerto de consulta de la jerarquía organizacional.
// Los misses de código devuelven domain.ErrNotFound.
type LocationRepository interface {
	ByID(ctx context.Context, id string) (*entity.LocationNode, error)
	ByCode(ctx context.Context, code string) (*entity.LocationNode, error)
	ChildrenOf(ctx context.Context, parentID string) ([]*entity.LocationNode, error)
}
