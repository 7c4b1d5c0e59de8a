package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.SupplyPointRepository = (*SupplyPointRepo)(nil)

// SupplyPointRepo implementación en memoria de SupplyPointRepository.
type SupplyPointRepo struct {
	store *Store
}

// NewSupplyPointRepository construye el repositorio sobre el almacén.
func NewSupplyPointRepository(store *Store) *SupplyPointRepo {
	return &SupplyPointRepo{store: store}
}

func (r *SupplyPointRepo) ByID(ctx context.Context, id string) (*entity.SupplyPoint, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sp, ok := r.store.supplyPoints[id]
	if !ok {
		return nil, fmt.Errorf("punto %s: %w", id, domain.ErrNotFound)
	}
	return sp, nil
}

func (r *SupplyPointRepo) ByCode(ctx context.Context, code string, typeFilter entity.LocationType) (*entity.SupplyPoint, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, sp := range r.store.supplyPoints {
		if sp.Code == code && (typeFilter == "" || sp.Type == typeFilter) {
			return sp, nil
		}
	}
	return nil, fmt.Errorf("punto %s: %w", code, domain.ErrNotFound)
}

func (r *SupplyPointRepo) ByLocationIDs(ctx context.Context, locationIDs []string, typeFilter entity.LocationType) ([]*entity.SupplyPoint, error) {
	wanted := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		wanted[id] = true
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.SupplyPoint
	for _, sp := range r.store.supplyPoints {
		if wanted[sp.LocationID] && (typeFilter == "" || sp.Type == typeFilter) {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SupplyPointRepo) SuppliedBy(ctx context.Context, parentID string) ([]*entity.SupplyPoint, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.SupplyPoint
	for _, sp := range r.store.supplyPoints {
		if sp.SuppliedByID == parentID {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SupplyPointRepo) Create(ctx context.Context, sp *entity.SupplyPoint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.supplyPoints[sp.ID]; exists {
		return fmt.Errorf("punto %s: %w", sp.ID, domain.ErrDuplicate)
	}
	r.store.supplyPoints[sp.ID] = sp
	return nil
}

func (r *SupplyPointRepo) UpdateLastReported(ctx context.Context, id string, ts time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sp, ok := r.store.supplyPoints[id]
	if !ok {
		return fmt.Errorf("punto %s: %w", id, domain.ErrNotFound)
	}
	sp.LastReported = &ts
	return nil
}
