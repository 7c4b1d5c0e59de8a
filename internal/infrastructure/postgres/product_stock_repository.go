package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

var _ repository.ProductStockRepository = (*ProductStockRepo)(nil)

// ProductStockRepo implementación de ProductStockRepository sobre PostgreSQL.
type ProductStockRepo struct {
	q Querier
}

func NewProductStockRepository(q Querier) *ProductStockRepo {
	return &ProductStockRepo{q: q}
}

const productStockColumns = `supply_point_id, product_id, quantity, monthly_consumption, updated_at`

func scanProductStock(row pgx.Row) (*entity.ProductStock, error) {
	var ps entity.ProductStock
	err := row.Scan(&ps.SupplyPointID, &ps.ProductID, &ps.Quantity, &ps.MonthlyConsumption, &ps.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

// Get devuelve el registro de stock del par (punto, producto). Si nunca se
// reportó, devuelve un registro en cero con UpdatedAt vacío en lugar de
// error: "sin dato" es un estado válido del inventario.
func (r *ProductStockRepo) Get(ctx context.Context, supplyPointID, productID string) (*entity.ProductStock, error) {
	query := `
		SELECT ` + productStockColumns + `
		FROM product_stocks
		WHERE supply_point_id = $1 AND product_id = $2`
	ps, err := scanProductStock(r.q.QueryRow(ctx, query, supplyPointID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ProductStock{SupplyPointID: supplyPointID, ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get product stock: %w", err)
	}
	return ps, nil
}

func (r *ProductStockRepo) BySupplyPoint(ctx context.Context, supplyPointID string) ([]*entity.ProductStock, error) {
	query := `
		SELECT ` + productStockColumns + `
		FROM product_stocks
		WHERE supply_point_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, supplyPointID)
	if err != nil {
		return nil, fmt.Errorf("list product stocks: %w", err)
	}
	defer rows.Close()

	var out []*entity.ProductStock
	for rows.Next() {
		ps, err := scanProductStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product stock: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (r *ProductStockRepo) Upsert(ctx context.Context, ps *entity.ProductStock) error {
	query := `
		INSERT INTO product_stocks (supply_point_id, product_id, quantity, monthly_consumption, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (supply_point_id, product_id)
		DO UPDATE SET quantity = $3, monthly_consumption = $4, updated_at = $5`
	_, err := r.q.Exec(ctx, query, ps.SupplyPointID, ps.ProductID, ps.Quantity, ps.MonthlyConsumption, ps.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert product stock: %w", err)
	}
	return nil
}
