package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrMultipleMatches    = errors.New("el código resuelve a más de un contacto")
	ErrRequestClosed      = errors.New("la solicitud de stock ya está cerrada")
	ErrUnregisteredSender = errors.New("remitente sin contacto registrado")
	ErrDuplicateKeyword   = errors.New("keyword registrado por más de un handler")
)
