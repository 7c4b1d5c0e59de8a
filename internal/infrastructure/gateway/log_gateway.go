package gateway

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

var _ messaging.Gateway = (*LogGateway)(nil)

// LogGateway adapter de salida que solo loggea los mensajes. Útil en
// development y en corridas sin proveedor de SMS configurado.
type LogGateway struct {
	log *logger.Logger
}

// NewLogGateway construye el adapter.
func NewLogGateway(log *logger.Logger) *LogGateway {
	return &LogGateway{log: log}
}

func (g *LogGateway) Send(ctx context.Context, to *entity.Contact, key messaging.MessageKey, params map[string]string) {
	g.log.Info().
		Str("to", to.Phone).
		Str("contact", to.Name).
		Str("template", string(key)).
		Str("text", messaging.Render(key, params)).
		Msg("sms saliente")
}

func (g *LogGateway) SendRaw(ctx context.Context, phone string, key messaging.MessageKey, params map[string]string) {
	g.log.Info().
		Str("to", phone).
		Str("template", string(key)).
		Str("text", messaging.Render(key, params)).
		Msg("sms saliente (sin contacto)")
}
