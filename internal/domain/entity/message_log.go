package entity

import "time"

// Dirección de un mensaje en el log.
const (
	DirectionIn  = "I"
	DirectionOut = "O"
)

// MessageLog registro de un mensaje de texto entrante o saliente.
// Unrecognized marca mensajes entrantes que ningún handler reconoció,
// para reportarlos después.
type MessageLog struct {
	ID           string
	ContactID    string // vacío si el remitente no está registrado
	Phone        string
	Direction    string
	Text         string
	Unrecognized bool
	CreatedAt    time.Time
}
