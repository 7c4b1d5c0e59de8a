package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Reabasto-api/internal/application/sms"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// Store almacén en memoria compartido por los repositorios del paquete.
// Pensado para tests y corridas sin base de datos: cada operación es atómica
// bajo el RWMutex, pero no hay transacciones reales (la atomicidad
// multi-escritura la da la implementación postgres).
type Store struct {
	mu           sync.RWMutex
	locations    map[string]*entity.LocationNode
	supplyPoints map[string]*entity.SupplyPoint
	contacts     map[string]*entity.Contact
	products     map[string]*entity.Product
	stocks       map[string]*entity.ProductStock
	requests     []*entity.StockRequest
	statuses     []*entity.SupplyPointStatus
	messages     []*entity.MessageLog
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		locations:    make(map[string]*entity.LocationNode),
		supplyPoints: make(map[string]*entity.SupplyPoint),
		contacts:     make(map[string]*entity.Contact),
		products:     make(map[string]*entity.Product),
		stocks:       make(map[string]*entity.ProductStock),
	}
}

// Repos conjunto completo de repositorios sobre este almacén.
func (s *Store) Repos() sms.Repos {
	return sms.Repos{
		SupplyPoints: NewSupplyPointRepository(s),
		Contacts:     NewContactRepository(s),
		Products:     NewProductRepository(s),
		Stocks:       NewProductStockRepository(s),
		Requests:     NewStockRequestRepository(s),
		Statuses:     NewStatusRepository(s),
		Messages:     NewMessageLogRepository(s),
	}
}

func stockKey(supplyPointID, productID string) string {
	return supplyPointID + "|" + productID
}

var _ sms.TxRunner = (*TxRunner)(nil)

// TxRunner corre fn con los repositorios del almacén. Sin transacción real:
// cada operación es atómica por sí sola, suficiente para tests y demos.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con los repos del almacén.
func (r *TxRunner) Run(ctx context.Context, fn func(repos sms.Repos) error) error {
	return fn(r.store.Repos())
}
