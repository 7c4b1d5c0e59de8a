package entity

import "time"

// RequestStatus ciclo de vida de una solicitud de stock.
type RequestStatus string

const (
	RequestOpen   RequestStatus = "open"
	RequestClosed RequestStatus = "closed"
)

// ResponseStatus clasificación del cierre de una solicitud. Vacío mientras
// la solicitud sigue abierta.
type ResponseStatus string

const (
	ResponseNone          ResponseStatus = ""
	ResponseStockedOut    ResponseStatus = "stocked_out"
	ResponseUnderSupplied ResponseStatus = "under_supplied"
	ResponseWellSupplied  ResponseStatus = "well_supplied"
	ResponseOverSupplied  ResponseStatus = "over_supplied"
)

// StockRequest solicitud de reabastecimiento para un (punto, producto).
// Nunca se borra: se cierra exactamente una vez y queda como pista de auditoría.
// Invariante: Balance = AmountRequested - AmountReceived cuando ambos existen.
type StockRequest struct {
	ID              string
	SupplyPointID   string
	ProductID       string
	AmountRequested int64
	AmountReceived  *int64 // nil hasta que haya respuesta
	Balance         int64
	IsEmergency     bool
	RequestedOn     time.Time
	RespondedOn     *time.Time
	RequestedByID   string
	RespondedByID   string
	Status          RequestStatus
	ResponseStatus  ResponseStatus
}

// IsPending una solicitud está pendiente si y solo si sigue abierta,
// independientemente del response status.
func (r *StockRequest) IsPending() bool {
	return r.Status == RequestOpen
}

// ClassifyResponse clasifica una respuesta comparando lo recibido contra lo
// solicitado: igual → well_supplied, menos (pero >0) → under_supplied,
// más → over_supplied, cero → stocked_out.
func ClassifyResponse(requested, received int64) ResponseStatus {
	switch {
	case received == 0:
		return ResponseStockedOut
	case received < requested:
		return ResponseUnderSupplied
	case received == requested:
		return ResponseWellSupplied
	default:
		return ResponseOverSupplied
	}
}
