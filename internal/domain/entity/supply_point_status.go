package entity

import "time"

// Tipos y valores de evento de estado de un punto de suministro.
// Log append-only: nunca se actualiza ni se borra.
type StatusType string

type StatusValue string

const (
	StatusDeliveryFacility StatusType = "del_fac" // entrega al centro de salud
	StatusReportFacility   StatusType = "rr_fac"  // envío del reporte periódico

	StatusNotReceived  StatusValue = "not_received"
	StatusNotSubmitted StatusValue = "not_submitted"
	StatusReceived     StatusValue = "received"
	StatusSubmitted    StatusValue = "submitted"
)

// SupplyPointStatus evento de estado fechado contra un punto de suministro,
// ej. "entrega no recibida" o "reporte no enviado".
type SupplyPointStatus struct {
	ID            string
	SupplyPointID string
	StatusType    StatusType
	StatusValue   StatusValue
	CreatedAt     time.Time
}
