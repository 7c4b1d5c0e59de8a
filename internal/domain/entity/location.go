package entity

// LocationType nivel organizacional de un nodo en la jerarquía.
type LocationType string

const (
	LocationHSA      LocationType = "hsa"
	LocationFacility LocationType = "hf"
	LocationDistrict LocationType = "dist"
	LocationRegion   LocationType = "reg"
	LocationNational LocationType = "nat"
)

// LocationNode nodo de la jerarquía organizacional (árbol: cada nodo no raíz
// tiene exactamente un padre, sin ciclos). Datos de referencia, solo lectura
// durante la operación del flujo SMS.
type LocationNode struct {
	ID       string
	Code     string // código corto usado en los SMS (ej. "26", "nkh")
	Name     string
	Type     LocationType
	ParentID string // vacío en la raíz
	IsActive bool
}
