package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

// StockRequestRepo implementación en memoria del ledger. El slice interno
// preserva el orden de inserción, que es el contrato de Pending.
type StockRequestRepo struct {
	store *Store
}

// NewStockRequestRepository construye el repositorio sobre el almacén.
func NewStockRequestRepository(store *Store) *StockRequestRepo {
	return &StockRequestRepo{store: store}
}

func (r *StockRequestRepo) Create(ctx context.Context, req *entity.StockRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *req
	r.store.requests = append(r.store.requests, &copied)
	return nil
}

func (r *StockRequestRepo) Pending(ctx context.Context, supplyPointID string) ([]*entity.StockRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.StockRequest
	for _, req := range r.store.requests {
		if req.SupplyPointID == supplyPointID && req.Status == entity.RequestOpen {
			copied := *req
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *StockRequestRepo) Update(ctx context.Context, req *entity.StockRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, existing := range r.store.requests {
		if existing.ID == req.ID {
			copied := *req
			r.store.requests[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("solicitud %s: %w", req.ID, domain.ErrNotFound)
}

func (r *StockRequestRepo) RequestedSince(ctx context.Context, supplyPointIDs []string, since time.Time) ([]*entity.StockRequest, error) {
	wanted := make(map[string]bool, len(supplyPointIDs))
	for _, id := range supplyPointIDs {
		wanted[id] = true
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.StockRequest
	for _, req := range r.store.requests {
		if wanted[req.SupplyPointID] && !req.RequestedOn.Before(since) {
			copied := *req
			out = append(out, &copied)
		}
	}
	return out, nil
}
