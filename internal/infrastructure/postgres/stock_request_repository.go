package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

// StockRequestRepo implementación de StockRequestRepository sobre PostgreSQL.
// Solo INSERT y UPDATE de cierre: el ledger nunca borra filas.
type StockRequestRepo struct {
	q Querier
}

func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

const stockRequestColumns = `id, supply_point_id, product_id, amount_requested,
	amount_received, balance, is_emergency, requested_on, responded_on,
	COALESCE(requested_by_id::text, ''), COALESCE(responded_by_id::text, ''),
	status, response_status`

func scanStockRequest(row pgx.Row) (*entity.StockRequest, error) {
	var r entity.StockRequest
	err := row.Scan(
		&r.ID, &r.SupplyPointID, &r.ProductID, &r.AmountRequested,
		&r.AmountReceived, &r.Balance, &r.IsEmergency, &r.RequestedOn, &r.RespondedOn,
		&r.RequestedByID, &r.RespondedByID,
		&r.Status, &r.ResponseStatus,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *StockRequestRepo) Create(ctx context.Context, req *entity.StockRequest) error {
	query := `
		INSERT INTO stock_requests (
			id, supply_point_id, product_id, amount_requested,
			amount_received, balance, is_emergency, requested_on, responded_on,
			requested_by_id, responded_by_id, status, response_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			NULLIF($10, '')::uuid, NULLIF($11, '')::uuid, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.SupplyPointID, req.ProductID, req.AmountRequested,
		req.AmountReceived, req.Balance, req.IsEmergency, req.RequestedOn, req.RespondedOn,
		req.RequestedByID, req.RespondedByID, req.Status, req.ResponseStatus,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock request: %w", err)
	}
	return nil
}

// Pending solicitudes abiertas del punto, en orden de creación. El orden
// importa: el recibo empareja contra la pendiente más antigua por producto.
func (r *StockRequestRepo) Pending(ctx context.Context, supplyPointID string) ([]*entity.StockRequest, error) {
	query := `
		SELECT ` + stockRequestColumns + `
		FROM stock_requests
		WHERE supply_point_id = $1 AND status = 'open'
		ORDER BY requested_on, id`
	rows, err := r.q.Query(ctx, query, supplyPointID)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer rows.Close()
	return collectStockRequests(rows)
}

func (r *StockRequestRepo) Update(ctx context.Context, req *entity.StockRequest) error {
	query := `
		UPDATE stock_requests
		SET amount_received = $2, balance = $3, responded_on = $4,
		    responded_by_id = NULLIF($5, '')::uuid, status = $6, response_status = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		req.ID, req.AmountReceived, req.Balance, req.RespondedOn,
		req.RespondedByID, req.Status, req.ResponseStatus,
	)
	if err != nil {
		return fmt.Errorf("update stock request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("solicitud %s: %w", req.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *StockRequestRepo) RequestedSince(ctx context.Context, supplyPointIDs []string, since time.Time) ([]*entity.StockRequest, error) {
	query := `
		SELECT ` + stockRequestColumns + `
		FROM stock_requests
		WHERE supply_point_id = ANY($1) AND requested_on >= $2
		ORDER BY requested_on, id`
	rows, err := r.q.Query(ctx, query, supplyPointIDs, since)
	if err != nil {
		return nil, fmt.Errorf("list requests since: %w", err)
	}
	defer rows.Close()
	return collectStockRequests(rows)
}

func collectStockRequests(rows pgx.Rows) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for rows.Next() {
		req, err := scanStockRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
