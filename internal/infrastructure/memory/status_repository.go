package memory

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.SupplyPointStatusRepository = (*StatusRepo)(nil)

// StatusRepo implementación en memoria del log de eventos de estado.
type StatusRepo struct {
	store *Store
}

// NewStatusRepository construye el repositorio sobre el almacén.
func NewStatusRepository(store *Store) *StatusRepo {
	return &StatusRepo{store: store}
}

func (r *StatusRepo) Append(ctx context.Context, s *entity.SupplyPointStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *s
	r.store.statuses = append(r.store.statuses, &copied)
	return nil
}

func (r *StatusRepo) BySupplyPoint(ctx context.Context, supplyPointID string) ([]*entity.SupplyPointStatus, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.SupplyPointStatus
	for _, s := range r.store.statuses {
		if s.SupplyPointID == supplyPointID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}
