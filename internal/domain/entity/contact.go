package entity

// Roles de contacto reconocidos por el flujo de reabastecimiento.
// DistrictPharmacist e IMCICoordinator forman el conjunto supervisor por defecto.
const (
	RoleHSA                = "hsa"
	RoleInCharge           = "ic"  // encargado de centro de salud
	RoleDistrictPharmacist = "dp"
	RoleIMCICoordinator    = "im"
)

// Contact persona registrada que reporta por SMS. Ligado a exactamente un
// SupplyPoint; requerido (no nulo) para cualquier comando que mute el ledger.
type Contact struct {
	ID            string
	Name          string
	Phone         string // identidad del remitente en el gateway
	Role          string
	SupplyPointID string
	IsActive      bool
}
