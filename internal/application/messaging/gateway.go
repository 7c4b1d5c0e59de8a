package messaging

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// Gateway puerto de salida de mensajes de texto. Best-effort y no bloqueante
// desde la perspectiva del que lo invoca: los fallos se loggean en el adapter,
// nunca se reintentan ni abortan la transacción que los originó.
type Gateway interface {
	Send(ctx context.Context, to *entity.Contact, key MessageKey, params map[string]string)
	// SendRaw envía a un teléfono sin contacto registrado (prompt de registro).
	SendRaw(ctx context.Context, phone string, key MessageKey, params map[string]string)
}
