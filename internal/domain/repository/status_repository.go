package repository

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// SupplyPointStatusRepository puerto del log append-only de eventos de estado.
type SupplyPointStatusRepository interface {
	Append(ctx context.Context, s *entity.SupplyPointStatus) error
	BySupplyPoint(ctx context.Context, supplyPointID string) ([]*entity.SupplyPointStatus, error)
}
