package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación en memoria de LocationRepository.
type LocationRepo struct {
	store *Store
}

// NewLocationRepository construye el repositorio sobre el almacén.
func NewLocationRepository(store *Store) *LocationRepo {
	return &LocationRepo{store: store}
}

// Add inserta un nodo (seed de tests y demos).
func (r *LocationRepo) Add(node *entity.LocationNode) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.locations[node.ID] = node
}

// ByID busca por id. domain.ErrNotFound si no existe.
func (r *LocationRepo) ByID(ctx context.Context, id string) (*entity.LocationNode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	node, ok := r.store.locations[id]
	if !ok {
		return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	return node, nil
}

// ByCode busca por código. domain.ErrNotFound si no existe.
func (r *LocationRepo) ByCode(ctx context.Context, code string) (*entity.LocationNode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, node := range r.store.locations {
		if node.Code == code {
			return node, nil
		}
	}
	return nil, fmt.Errorf("ubicación %s: %w", code, domain.ErrNotFound)
}

// ChildrenOf hijos directos, ordenados por nombre para resultados estables.
func (r *LocationRepo) ChildrenOf(ctx context.Context, parentID string) ([]*entity.LocationNode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.LocationNode
	for _, node := range r.store.locations {
		if node.ParentID == parentID {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
