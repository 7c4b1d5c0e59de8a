package repository

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// ProductRepository puerto de consulta del catálogo de insumos.
type ProductRepository interface {
	ByID(ctx context.Context, id string) (*entity.Product, error)
	BySMSCode(ctx context.Context, code string) (*entity.Product, error)
	All(ctx context.Context) ([]*entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
}
