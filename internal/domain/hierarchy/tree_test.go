package hierarchy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/hierarchy"
	"github.com/jhoicas/Reabasto-api/internal/infrastructure/memory"
)

// árbol nacional → distrito → centro → zona HSA, más un segundo distrito hoja.
func newTree(t *testing.T) (*hierarchy.Tree, map[string]*entity.LocationNode) {
	t.Helper()
	store := memory.NewStore()
	repo := memory.NewLocationRepository(store)

	nodes := map[string]*entity.LocationNode{
		"nat":   {ID: "loc-nat", Code: "mw", Name: "Nacional", Type: entity.LocationNational, IsActive: true},
		"dist":  {ID: "loc-dist", Code: "26", Name: "Nkhotakota", Type: entity.LocationDistrict, ParentID: "loc-nat", IsActive: true},
		"dist2": {ID: "loc-dist2", Code: "27", Name: "Salima", Type: entity.LocationDistrict, ParentID: "loc-nat", IsActive: true},
		"hf":    {ID: "loc-hf", Code: "nkh", Name: "Centro Nkhunga", Type: entity.LocationFacility, ParentID: "loc-dist", IsActive: true},
		"hsa":   {ID: "loc-hsa", Code: "2616", Name: "Zona 2616", Type: entity.LocationHSA, ParentID: "loc-hf", IsActive: true},
	}
	for _, n := range nodes {
		repo.Add(n)
	}
	return hierarchy.New(repo), nodes
}

func TestByCode(t *testing.T) {
	tree, nodes := newTree(t)

	node, err := tree.ByCode(context.Background(), "nkh")
	require.NoError(t, err)
	assert.Equal(t, nodes["hf"].ID, node.ID)

	_, err = tree.ByCode(context.Background(), "zz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDescendants_SubarbolCompleto(t *testing.T) {
	tree, nodes := newTree(t)

	desc, err := tree.Descendants(context.Background(), nodes["nat"])
	require.NoError(t, err)
	assert.Len(t, desc, 4, "todos los nodos bajo la raíz, sin incluirla")

	desc, err = tree.Descendants(context.Background(), nodes["dist"])
	require.NoError(t, err)
	require.Len(t, desc, 2)

	desc, err = tree.Descendants(context.Background(), nodes["hsa"])
	require.NoError(t, err)
	assert.Empty(t, desc, "una hoja no tiene descendientes")
}

func TestSelfAndDescendants_IncluyeElNodo(t *testing.T) {
	tree, nodes := newTree(t)

	all, err := tree.SelfAndDescendants(context.Background(), nodes["dist"])
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, nodes["dist"].ID, all[0].ID, "el propio nodo va primero")
}

func TestAncestorsUpTo_AcotadoYOrdenado(t *testing.T) {
	tree, nodes := newTree(t)

	// Dos niveles desde la zona: centro y distrito, del más cercano al más lejano.
	anc, err := tree.AncestorsUpTo(context.Background(), nodes["hsa"], 2)
	require.NoError(t, err)
	require.Len(t, anc, 2)
	assert.Equal(t, nodes["hf"].ID, anc[0].ID)
	assert.Equal(t, nodes["dist"].ID, anc[1].ID)

	// Pedir más niveles de los que hay se detiene en la raíz sin error.
	anc, err = tree.AncestorsUpTo(context.Background(), nodes["hsa"], 10)
	require.NoError(t, err)
	assert.Len(t, anc, 3)
	assert.Equal(t, nodes["nat"].ID, anc[2].ID)

	anc, err = tree.AncestorsUpTo(context.Background(), nodes["nat"], 5)
	require.NoError(t, err)
	assert.Empty(t, anc, "la raíz no tiene ancestros")
}
