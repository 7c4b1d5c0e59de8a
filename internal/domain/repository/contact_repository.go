package repository

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// ContactRepository puerto de consulta/registro de contactos.
type ContactRepository interface {
	// ByPhone resuelve la identidad del remitente. domain.ErrNotFound si no hay
	// contacto activo con ese teléfono.
	ByPhone(ctx context.Context, phone string) (*entity.Contact, error)
	// BySupplyPoint devuelve el contacto único ligado a un punto de suministro.
	// domain.ErrMultipleMatches si hay más de uno: eso es un problema de
	// integridad de datos que requiere corrección manual, nunca se resuelve solo.
	BySupplyPoint(ctx context.Context, supplyPointID string) (*entity.Contact, error)
	// ActiveBySupplyPointAndRoles contactos activos de un punto cuyo rol está
	// en roles (resolución de supervisores).
	ActiveBySupplyPointAndRoles(ctx context.Context, supplyPointID string, roles []string) ([]*entity.Contact, error)
	// ActiveByRoleIn contactos activos con ese rol cuyo punto de suministro
	// está en supplyPointIDs.
	ActiveByRoleIn(ctx context.Context, role string, supplyPointIDs []string) ([]*entity.Contact, error)
	Create(ctx context.Context, c *entity.Contact) error
	Update(ctx context.Context, c *entity.Contact) error
}
