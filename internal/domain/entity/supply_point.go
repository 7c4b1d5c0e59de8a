package entity

import "time"

// SupplyPoint punto de suministro ligado 1:1 a un LocationNode. Mantiene el
// stock vivo por producto (ProductStock) y la fecha del último reporte.
// SuppliedByID apunta al punto que lo reabastece (un nivel arriba en el árbol).
type SupplyPoint struct {
	ID           string
	Code         string // código usado por los agentes en los SMS
	Name         string
	Type         LocationType
	LocationID   string
	SuppliedByID string // vacío en el nivel nacional
	LastReported *time.Time
	IsActive     bool
}
