package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// StockRequestRepository puerto del ledger de solicitudes de stock.
// Las solicitudes solo se crean y se cierran, nunca se borran.
type StockRequestRepository interface {
	Create(ctx context.Context, r *entity.StockRequest) error
	// Pending solicitudes abiertas de un punto, en orden de creación (estable).
	Pending(ctx context.Context, supplyPointID string) ([]*entity.StockRequest, error)
	// Update persiste el cierre de una solicitud.
	Update(ctx context.Context, r *entity.StockRequest) error
	// RequestedSince solicitudes de los puntos dados con requested_on >= since,
	// cerradas o no (la agregación filtra según necesite).
	RequestedSince(ctx context.Context, supplyPointIDs []string, since time.Time) ([]*entity.StockRequest, error)
}
