package sms

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

// Repos repositorios atados a la transacción de un mensaje entrante.
type Repos struct {
	SupplyPoints repository.SupplyPointRepository
	Contacts     repository.ContactRepository
	Products     repository.ProductRepository
	Stocks       repository.ProductStockRepository
	Requests     repository.StockRequestRepository
	Statuses     repository.SupplyPointStatusRepository
	Messages     repository.MessageLogRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza el modelo una-transacción-por-mensaje: todas las
// escrituras del ledger son atómicas; los envíos de notificaciones quedan
// fuera de banda y no se revierten.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
