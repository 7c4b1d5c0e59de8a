package hierarchy

import (
	"context"
	"fmt"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

// Tree servicio de dominio de solo lectura sobre la jerarquía organizacional.
// Soporta recorrido descendente sin límite de profundidad (rollups de reportes)
// y ascendente acotado (búsquedas de escalamiento HSA → centro → distrito).
type Tree struct {
	locations repository.LocationRepository
}

// New construye el servicio sobre el repositorio de ubicaciones.
func New(locations repository.LocationRepository) *Tree {
	return &Tree{locations: locations}
}

// ByCode resuelve un código a su nodo. domain.ErrNotFound si no existe.
func (t *Tree) ByCode(ctx context.Context, code string) (*entity.LocationNode, error) {
	return t.locations.ByCode(ctx, code)
}

// Children hijos directos de un nodo.
func (t *Tree) Children(ctx context.Context, node *entity.LocationNode) ([]*entity.LocationNode, error) {
	return t.locations.ChildrenOf(ctx, node.ID)
}

// Descendants todos los descendientes (BFS, profundidad ilimitada), sin
// incluir el nodo dado. El invariante sin-ciclos del árbol garantiza terminación.
func (t *Tree) Descendants(ctx context.Context, node *entity.LocationNode) ([]*entity.LocationNode, error) {
	var out []*entity.LocationNode
	queue := []*entity.LocationNode{node}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := t.locations.ChildrenOf(ctx, current.ID)
		if err != nil {
			return nil, fmt.Errorf("descendientes de %s: %w", current.Code, err)
		}
		out = append(out, children...)
		queue = append(queue, children...)
	}
	return out, nil
}

// SelfAndDescendants el nodo dado más todos sus descendientes.
func (t *Tree) SelfAndDescendants(ctx context.Context, node *entity.LocationNode) ([]*entity.LocationNode, error) {
	desc, err := t.Descendants(ctx, node)
	if err != nil {
		return nil, err
	}
	return append([]*entity.LocationNode{node}, desc...), nil
}

// AncestorsUpTo ancestros del nodo hasta levels niveles hacia arriba, del más
// cercano al más lejano. Se detiene en la raíz aunque falten niveles.
func (t *Tree) AncestorsUpTo(ctx context.Context, node *entity.LocationNode, levels int) ([]*entity.LocationNode, error) {
	var out []*entity.LocationNode
	current := node
	for i := 0; i < levels && current.ParentID != ""; i++ {
		parent, err := t.locations.ByID(ctx, current.ParentID)
		if err != nil {
			return nil, fmt.Errorf("ancestro de %s: %w", current.Code, err)
		}
		out = append(out, parent)
		current = parent
	}
	return out, nil
}
