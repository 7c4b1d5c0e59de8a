package repository

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// MessageLogRepository puerto del log de mensajes entrantes/salientes.
type MessageLogRepository interface {
	Append(ctx context.Context, m *entity.MessageLog) error
	// Unrecognized mensajes entrantes que ningún handler reconoció.
	Unrecognized(ctx context.Context, limit int) ([]*entity.MessageLog, error)
}
