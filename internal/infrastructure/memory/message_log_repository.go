package memory

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.MessageLogRepository = (*MessageLogRepo)(nil)

// MessageLogRepo implementación en memoria del log de mensajes.
type MessageLogRepo struct {
	store *Store
}

// NewMessageLogRepository construye el repositorio sobre el almacén.
func NewMessageLogRepository(store *Store) *MessageLogRepo {
	return &MessageLogRepo{store: store}
}

func (r *MessageLogRepo) Append(ctx context.Context, m *entity.MessageLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *m
	r.store.messages = append(r.store.messages, &copied)
	return nil
}

func (r *MessageLogRepo) Unrecognized(ctx context.Context, limit int) ([]*entity.MessageLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.MessageLog
	for i := len(r.store.messages) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m := r.store.messages[i]; m.Unrecognized {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}
