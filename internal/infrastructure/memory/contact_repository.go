package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implementación en memoria de ContactRepository.
type ContactRepo struct {
	store *Store
}

// NewContactRepository construye el repositorio sobre el almacén.
func NewContactRepository(store *Store) *ContactRepo {
	return &ContactRepo{store: store}
}

func (r *ContactRepo) ByPhone(ctx context.Context, phone string) (*entity.Contact, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.contacts {
		if c.Phone == phone && c.IsActive {
			return c, nil
		}
	}
	return nil, fmt.Errorf("contacto con teléfono %s: %w", phone, domain.ErrNotFound)
}

// BySupplyPoint contacto único del punto. Más de una coincidencia es
// domain.ErrMultipleMatches: integridad de datos rota, nunca se elige uno.
func (r *ContactRepo) BySupplyPoint(ctx context.Context, supplyPointID string) (*entity.Contact, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var found *entity.Contact
	for _, c := range r.store.contacts {
		if c.SupplyPointID != supplyPointID || !c.IsActive {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("punto %s: %w", supplyPointID, domain.ErrMultipleMatches)
		}
		found = c
	}
	if found == nil {
		return nil, fmt.Errorf("contacto del punto %s: %w", supplyPointID, domain.ErrNotFound)
	}
	return found, nil
}

func (r *ContactRepo) ActiveBySupplyPointAndRoles(ctx context.Context, supplyPointID string, roles []string) ([]*entity.Contact, error) {
	roleSet := make(map[string]bool, len(roles))
	for _, role := range roles {
		roleSet[role] = true
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Contact
	for _, c := range r.store.contacts {
		if c.IsActive && c.SupplyPointID == supplyPointID && roleSet[c.Role] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ContactRepo) ActiveByRoleIn(ctx context.Context, role string, supplyPointIDs []string) ([]*entity.Contact, error) {
	wanted := make(map[string]bool, len(supplyPointIDs))
	for _, id := range supplyPointIDs {
		wanted[id] = true
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Contact
	for _, c := range r.store.contacts {
		if c.IsActive && c.Role == role && wanted[c.SupplyPointID] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.contacts[c.ID]; exists {
		return fmt.Errorf("contacto %s: %w", c.ID, domain.ErrDuplicate)
	}
	r.store.contacts[c.ID] = c
	return nil
}

func (r *ContactRepo) Update(ctx context.Context, c *entity.Contact) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.contacts[c.ID]; !exists {
		return fmt.Errorf("contacto %s: %w", c.ID, domain.ErrNotFound)
	}
	r.store.contacts[c.ID] = c
	return nil
}
