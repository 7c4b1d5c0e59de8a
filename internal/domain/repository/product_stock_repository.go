package repository

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// ProductStockRepository puerto del stock vivo por (punto, producto).
type ProductStockRepository interface {
	// Get devuelve el registro o uno vacío (Quantity 0) si no existe fila.
	Get(ctx context.Context, supplyPointID, productID string) (*entity.ProductStock, error)
	BySupplyPoint(ctx context.Context, supplyPointID string) ([]*entity.ProductStock, error)
	Upsert(ctx context.Context, ps *entity.ProductStock) error
}
