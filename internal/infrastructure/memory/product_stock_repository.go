package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.ProductStockRepository = (*ProductStockRepo)(nil)

// ProductStockRepo implementación en memoria de ProductStockRepository.
type ProductStockRepo struct {
	store *Store
}

// NewProductStockRepository construye el repositorio sobre el almacén.
func NewProductStockRepository(store *Store) *ProductStockRepo {
	return &ProductStockRepo{store: store}
}

// Get devuelve una copia del registro, o uno vacío (Quantity 0, UpdatedAt
// cero) si el punto no maneja el producto.
func (r *ProductStockRepo) Get(ctx context.Context, supplyPointID, productID string) (*entity.ProductStock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if ps, ok := r.store.stocks[stockKey(supplyPointID, productID)]; ok {
		copied := *ps
		return &copied, nil
	}
	return &entity.ProductStock{SupplyPointID: supplyPointID, ProductID: productID}, nil
}

func (r *ProductStockRepo) BySupplyPoint(ctx context.Context, supplyPointID string) ([]*entity.ProductStock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.ProductStock
	for _, ps := range r.store.stocks {
		if ps.SupplyPointID == supplyPointID {
			copied := *ps
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *ProductStockRepo) Upsert(ctx context.Context, ps *entity.ProductStock) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *ps
	r.store.stocks[stockKey(ps.SupplyPointID, ps.ProductID)] = &copied
	return nil
}
