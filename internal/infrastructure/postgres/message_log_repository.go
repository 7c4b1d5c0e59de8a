package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.MessageLogRepository = (*MessageLogRepo)(nil)

// MessageLogRepo implementación de MessageLogRepository sobre PostgreSQL.
type MessageLogRepo struct {
	q Querier
}

func NewMessageLogRepository(q Querier) *MessageLogRepo {
	return &MessageLogRepo{q: q}
}

const messageLogColumns = `id, COALESCE(contact_id::text, ''), phone, direction, text, unrecognized, created_at`

func (r *MessageLogRepo) Append(ctx context.Context, m *entity.MessageLog) error {
	query := `
		INSERT INTO message_log (id, contact_id, phone, direction, text, unrecognized, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ContactID, m.Phone, m.Direction, m.Text, m.Unrecognized, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message log: %w", err)
	}
	return nil
}

// Unrecognized últimos mensajes entrantes que ningún handler reconoció,
// del más reciente al más antiguo.
func (r *MessageLogRepo) Unrecognized(ctx context.Context, limit int) ([]*entity.MessageLog, error) {
	query := `
		SELECT ` + messageLogColumns + `
		FROM message_log
		WHERE unrecognized
		ORDER BY created_at DESC, id
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list unrecognized messages: %w", err)
	}
	defer rows.Close()

	var out []*entity.MessageLog
	for rows.Next() {
		m, err := scanMessageLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message log: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMessageLog(row pgx.Row) (*entity.MessageLog, error) {
	var m entity.MessageLog
	err := row.Scan(&m.ID, &m.ContactID, &m.Phone, &m.Direction, &m.Text, &m.Unrecognized, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
