package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

// Service máquina de estados del ledger de solicitudes de stock. Crea
// solicitudes abiertas y las cierra exactamente una vez (normal, stockout o
// emergencia). Los callers deben filtrar por Pending antes de cerrar: cerrar
// dos veces es un error de lógica, no se tolera.
type Service struct {
	requests repository.StockRequestRepository
	stocks   repository.ProductStockRepository
}

// New construye el servicio del ledger.
func New(requests repository.StockRequestRepository, stocks repository.ProductStockRepository) *Service {
	return &Service{requests: requests, stocks: stocks}
}

// Create abre una solicitud para (punto, producto). Siempre nace open y sin
// response status.
func (s *Service) Create(ctx context.Context, supplyPointID, productID string, amountRequested int64, isEmergency bool, requestedByID string, now time.Time) (*entity.StockRequest, error) {
	if amountRequested <= 0 {
		return nil, fmt.Errorf("cantidad solicitada %d: %w", amountRequested, domain.ErrInvalidInput)
	}
	req := &entity.StockRequest{
		ID:              uuid.NewString(),
		SupplyPointID:   supplyPointID,
		ProductID:       productID,
		AmountRequested: amountRequested,
		Balance:         amountRequested,
		IsEmergency:     isEmergency,
		RequestedOn:     now,
		RequestedByID:   requestedByID,
		Status:          entity.RequestOpen,
		ResponseStatus:  entity.ResponseNone,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("crear solicitud: %w", err)
	}
	return req, nil
}

// Pending solicitudes abiertas de un punto en orden de creación.
func (s *Service) Pending(ctx context.Context, supplyPointID string) ([]*entity.StockRequest, error) {
	return s.requests.Pending(ctx, supplyPointID)
}

// MarkStockout cierra la solicitud como stocked_out: recibido 0, balance igual
// a lo solicitado. Efecto secundario: el stock vivo del producto se fuerza a 0
// para que las alertas aguas abajo reflejen la realidad aunque no hubo
// reabastecimiento (divergencia deliberada entre ledger y stock vivo).
func (s *Service) MarkStockout(ctx context.Context, req *entity.StockRequest, respondedByID string, now time.Time) error {
	if err := s.close(ctx, req, 0, respondedByID, now); err != nil {
		return err
	}
	return s.ForceStockZero(ctx, req.SupplyPointID, req.ProductID, now)
}

// RespondWithQuantity cierra la solicitud con la cantidad recibida y clasifica
// la respuesta comparándola contra lo solicitado.
func (s *Service) RespondWithQuantity(ctx context.Context, req *entity.StockRequest, amountReceived int64, respondedByID string, now time.Time) error {
	if amountReceived < 0 {
		return fmt.Errorf("cantidad recibida %d: %w", amountReceived, domain.ErrInvalidInput)
	}
	return s.close(ctx, req, amountReceived, respondedByID, now)
}

// close transición única open → closed. domain.ErrRequestClosed si la
// solicitud ya estaba cerrada; en ese caso no muta nada.
func (s *Service) close(ctx context.Context, req *entity.StockRequest, amountReceived int64, respondedByID string, now time.Time) error {
	if !req.IsPending() {
		return fmt.Errorf("solicitud %s: %w", req.ID, domain.ErrRequestClosed)
	}
	received := amountReceived
	req.AmountReceived = &received
	req.Balance = req.AmountRequested - amountReceived
	req.RespondedOn = &now
	req.RespondedByID = respondedByID
	req.Status = entity.RequestClosed
	req.ResponseStatus = entity.ClassifyResponse(req.AmountRequested, amountReceived)
	if err := s.requests.Update(ctx, req); err != nil {
		return fmt.Errorf("cerrar solicitud %s: %w", req.ID, err)
	}
	return nil
}

// ForceStockZero fuerza a 0 el stock vivo de un producto, conservando el
// consumo mensual estimado del registro existente.
func (s *Service) ForceStockZero(ctx context.Context, supplyPointID, productID string, now time.Time) error {
	ps, err := s.stocks.Get(ctx, supplyPointID, productID)
	if err != nil {
		return fmt.Errorf("stock de %s/%s: %w", supplyPointID, productID, err)
	}
	ps.SupplyPointID = supplyPointID
	ps.ProductID = productID
	ps.Quantity = 0
	ps.UpdatedAt = now
	if err := s.stocks.Upsert(ctx, ps); err != nil {
		return fmt.Errorf("forzar stock a cero: %w", err)
	}
	return nil
}

// SetStock registra el stock reportado de un producto.
func (s *Service) SetStock(ctx context.Context, supplyPointID, productID string, quantity int64, now time.Time) error {
	ps, err := s.stocks.Get(ctx, supplyPointID, productID)
	if err != nil {
		return fmt.Errorf("stock de %s/%s: %w", supplyPointID, productID, err)
	}
	ps.SupplyPointID = supplyPointID
	ps.ProductID = productID
	ps.Quantity = quantity
	ps.UpdatedAt = now
	if err := s.stocks.Upsert(ctx, ps); err != nil {
		return fmt.Errorf("actualizar stock: %w", err)
	}
	return nil
}

// AddStock suma unidades recibidas al stock vivo de un producto.
func (s *Service) AddStock(ctx context.Context, supplyPointID, productID string, delta int64, now time.Time) error {
	ps, err := s.stocks.Get(ctx, supplyPointID, productID)
	if err != nil {
		return fmt.Errorf("stock de %s/%s: %w", supplyPointID, productID, err)
	}
	ps.SupplyPointID = supplyPointID
	ps.ProductID = productID
	ps.Quantity += delta
	ps.UpdatedAt = now
	if err := s.stocks.Upsert(ctx, ps); err != nil {
		return fmt.Errorf("sumar stock: %w", err)
	}
	return nil
}
