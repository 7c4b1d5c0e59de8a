package sms

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reabasto-api/internal/application/ledger"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/domain"
)

// StockConfig parámetros de dimensionado de pedidos: el objetivo de pedido es
// MaxMonths meses de consumo.
type StockConfig struct {
	MaxMonths decimal.Decimal
}

// DefaultStockConfig objetivo estándar de dos meses de cobertura.
func DefaultStockConfig() StockConfig {
	return StockConfig{MaxMonths: decimal.NewFromInt(2)}
}

// StockOnHandHandler "soh <código> <cantidad> ...": el agente reporta su stock
// actual. Actualiza el stock vivo, estampa last_reported y abre una solicitud
// por cada producto por debajo de su nivel máximo (consumo × MaxMonths).
// Con emergency true ("eo ...") las solicitudes nacen marcadas de emergencia.
type StockOnHandHandler struct {
	keyword   string
	emergency bool
	cfg       StockConfig
}

// NewStockOnHandHandler reporte ordinario de stock (keyword soh|hw).
func NewStockOnHandHandler(cfg StockConfig) *StockOnHandHandler {
	return &StockOnHandHandler{keyword: "soh|hw", emergency: false, cfg: cfg}
}

// NewEmergencyOrderHandler pedido de emergencia (keyword eo|emergency).
func NewEmergencyOrderHandler(cfg StockConfig) *StockOnHandHandler {
	return &StockOnHandHandler{keyword: "eo|emergency", emergency: true, cfg: cfg}
}

func (h *StockOnHandHandler) Keyword() string       { return h.keyword }
func (h *StockOnHandHandler) ContactRequired() bool { return true }

func (h *StockOnHandHandler) Help(ctx context.Context, env *Envelope) {
	if h.emergency {
		env.Respond(ctx, messaging.MsgEoHelp, nil)
		return
	}
	env.Respond(ctx, messaging.MsgSohHelp, nil)
}

func (h *StockOnHandHandler) Handle(ctx context.Context, env *Envelope, text string) error {
	pairs, err := parsePairs(text)
	if err != nil {
		h.Help(ctx, env)
		return nil
	}

	now := time.Now().UTC()
	svc := ledger.New(env.Repos.Requests, env.Repos.Stocks)
	spID := env.Sender.SupplyPointID

	var requested []string
	for _, pair := range pairs {
		product, err := env.Repos.Products.BySMSCode(ctx, pair.code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				env.Respond(ctx, messaging.MsgUnknownProduct, map[string]string{"product": pair.code})
				return nil
			}
			return fmt.Errorf("producto %s: %w", pair.code, err)
		}
		if err := svc.SetStock(ctx, spID, product.ID, pair.qty, now); err != nil {
			return err
		}

		amount := h.orderAmount(ctx, env, spID, product.ID, pair.qty)
		if amount <= 0 {
			continue
		}
		if _, err := svc.Create(ctx, spID, product.ID, amount, h.emergency, env.Sender.ID, now); err != nil {
			return err
		}
		requested = append(requested, fmt.Sprintf("%s %d", product.SMSCode, amount))
	}

	if err := env.Repos.SupplyPoints.UpdateLastReported(ctx, spID, now); err != nil {
		return fmt.Errorf("estampar last_reported: %w", err)
	}

	products := "nothing"
	if len(requested) > 0 {
		products = strings.Join(requested, ", ")
	}
	key := messaging.MsgSohConfirm
	if h.emergency {
		key = messaging.MsgEoConfirm
	}
	env.Respond(ctx, key, map[string]string{"name": env.Sender.Name, "products": products})
	return nil
}

// orderAmount cantidad a pedir: nivel máximo (consumo × MaxMonths, redondeado
// hacia arriba) menos lo reportado. Sin dato de consumo no se dimensiona pedido.
func (h *StockOnHandHandler) orderAmount(ctx context.Context, env *Envelope, spID, productID string, onHand int64) int64 {
	ps, err := env.Repos.Stocks.Get(ctx, spID, productID)
	if err != nil || ps.MonthlyConsumption.IsZero() {
		return 0
	}
	maxLevel := ps.MonthlyConsumption.Mul(h.cfg.MaxMonths).Ceil().IntPart()
	return maxLevel - onHand
}

type codeQty struct {
	code string
	qty  int64
}

// parsePairs interpreta "co 10 or 5" como pares (código, cantidad).
// Número impar de tokens o cantidad no numérica/negativa → ErrInvalidInput.
func parsePairs(text string) ([]codeQty, error) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, fmt.Errorf("pares código-cantidad: %w", domain.ErrInvalidInput)
	}
	pairs := make([]codeQty, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		qty, err := strconv.ParseInt(fields[i+1], 10, 64)
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("cantidad %q: %w", fields[i+1], domain.ErrInvalidInput)
		}
		pairs = append(pairs, codeQty{code: fields[i], qty: qty})
	}
	return pairs, nil
}
