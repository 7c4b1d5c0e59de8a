package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implementación de ContactRepository sobre PostgreSQL
// (usable con pool o tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

const contactColumns = `id, name, phone, role, supply_point_id, is_active`

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var c entity.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Role, &c.SupplyPointID, &c.IsActive)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepo) ByPhone(ctx context.Context, phone string) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE phone = $1 AND is_active`
	c, err := scanContact(r.q.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("contacto con teléfono %s: %w", phone, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get contact by phone: %w", err)
	}
	return c, nil
}

// BySupplyPoint contacto único del punto. Más de una fila es
// domain.ErrMultipleMatches: integridad de datos rota que exige corrección
// manual, nunca se elige uno al azar.
func (r *ContactRepo) BySupplyPoint(ctx context.Context, supplyPointID string) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE supply_point_id = $1 AND is_active LIMIT 2`
	rows, err := r.q.Query(ctx, query, supplyPointID)
	if err != nil {
		return nil, fmt.Errorf("get contact by supply point: %w", err)
	}
	defer rows.Close()

	var found *entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		if found != nil {
			return nil, fmt.Errorf("punto %s: %w", supplyPointID, domain.ErrMultipleMatches)
		}
		found = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("contacto del punto %s: %w", supplyPointID, domain.ErrNotFound)
	}
	return found, nil
}

func (r *ContactRepo) ActiveBySupplyPointAndRoles(ctx context.Context, supplyPointID string, roles []string) ([]*entity.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE supply_point_id = $1 AND is_active AND role = ANY($2)
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, supplyPointID, roles)
	if err != nil {
		return nil, fmt.Errorf("contacts by roles: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (r *ContactRepo) ActiveByRoleIn(ctx context.Context, role string, supplyPointIDs []string) ([]*entity.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE role = $1 AND is_active AND supply_point_id = ANY($2)
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, role, supplyPointIDs)
	if err != nil {
		return nil, fmt.Errorf("contacts by role: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, name, phone, role, supply_point_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Phone, c.Role, c.SupplyPointID, c.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (r *ContactRepo) Update(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, phone = $3, role = $4, supply_point_id = $5, is_active = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Phone, c.Role, c.SupplyPointID, c.IsActive)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contacto %s: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

func collectContacts(rows pgx.Rows) ([]*entity.Contact, error) {
	var out []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
