package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Reabasto-api/internal/application/sms"
)

// Ensure TxRunner implements sms.TxRunner.
var _ sms.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el procesamiento de un mensaje entrante dentro de una
// transacción PostgreSQL: todas las escrituras del ledger de ese mensaje se
// confirman o revierten juntas. Los envíos de notificaciones quedan fuera de
// banda: un fallo de envío no revierte la transacción.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos sms.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := sms.Repos{
		SupplyPoints: NewSupplyPointRepository(tx),
		Contacts:     NewContactRepository(tx),
		Products:     NewProductRepository(tx),
		Stocks:       NewProductStockRepository(tx),
		Requests:     NewStockRequestRepository(tx),
		Statuses:     NewStatusRepository(tx),
		Messages:     NewMessageLogRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
