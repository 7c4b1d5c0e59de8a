package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// SupplyPointRepository puerto de consulta/actualización de puntos de suministro.
type SupplyPointRepository interface {
	ByID(ctx context.Context, id string) (*entity.SupplyPoint, error)
	// ByCode resuelve un código SMS; typeFilter vacío acepta cualquier tipo.
	ByCode(ctx context.Context, code string, typeFilter entity.LocationType) (*entity.SupplyPoint, error)
	// ByLocationIDs devuelve los puntos ligados a esas ubicaciones; typeFilter
	// vacío acepta cualquier tipo.
	ByLocationIDs(ctx context.Context, locationIDs []string, typeFilter entity.LocationType) ([]*entity.SupplyPoint, error)
	// SuppliedBy devuelve los puntos reabastecidos directamente por parentID.
	SuppliedBy(ctx context.Context, parentID string) ([]*entity.SupplyPoint, error)
	Create(ctx context.Context, sp *entity.SupplyPoint) error
	UpdateLastReported(ctx context.Context, id string, ts time.Time) error
}
