package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Reabasto-api/internal/application/escalation"
	"github.com/jhoicas/Reabasto-api/internal/application/ledger"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

// StockoutHandler "os <hsa id>": el encargado reporta que no puede surtir el
// pedido de un HSA. Cierra todas las solicitudes pendientes del HSA como
// stocked_out y dispara la escalada. Para pedidos de emergencia el cierre
// tiene matices distintos, pero por simplicidad se marcan igual y la
// diferencia se refleja solo en los mensajes de la escalada.
type StockoutHandler struct {
	cfg escalation.Config
	log *logger.Logger
}

// NewStockoutHandler construye el handler de stockout.
func NewStockoutHandler(cfg escalation.Config, log *logger.Logger) *StockoutHandler {
	return &StockoutHandler{cfg: cfg, log: log}
}

func (h *StockoutHandler) Keyword() string       { return "os|so|out" }
func (h *StockoutHandler) ContactRequired() bool { return true }

func (h *StockoutHandler) Help(ctx context.Context, env *Envelope) {
	env.Respond(ctx, messaging.MsgStockoutHelp, nil)
}

func (h *StockoutHandler) Handle(ctx context.Context, env *Envelope, text string) error {
	hsaCode := strings.Fields(text)[0]
	hsa, err := resolveHSA(ctx, env, hsaCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			env.Respond(ctx, messaging.MsgUnknownHSA, map[string]string{"hsa": hsaCode})
			return nil
		}
		// ErrMultipleMatches y cualquier otro fallo abortan la transacción:
		// más de un contacto por punto es un problema de integridad de datos.
		return err
	}

	svc := ledger.New(env.Repos.Requests, env.Repos.Stocks)
	pending, err := svc.Pending(ctx, hsa.SupplyPointID)
	if err != nil {
		return fmt.Errorf("pendientes de %s: %w", hsaCode, err)
	}
	if len(pending) == 0 {
		env.Respond(ctx, messaging.MsgNoPendingOrders, map[string]string{"hsa": hsa.Name})
		return nil
	}

	now := time.Now().UTC()
	for _, req := range pending {
		if err := svc.MarkStockout(ctx, req, env.Sender.ID, now); err != nil {
			return err
		}
	}

	engine := escalation.New(
		env.Repos.Contacts, env.Repos.SupplyPoints, env.Repos.Products,
		svc, env.Gateway(), h.cfg, h.log,
	)
	result, err := engine.Escalate(ctx, env.Sender, hsa, pending, now)
	if err != nil {
		return fmt.Errorf("escalada de stockout: %w", err)
	}
	if !result.Supervisors.Delivered() {
		h.log.Info().Str("hsa", hsaCode).Msg("stockout cerrado sin supervisores notificados")
	}
	return nil
}

// resolveHSA resuelve un código de HSA a su contacto: punto de suministro tipo
// hsa por código y contacto único ligado a él.
func resolveHSA(ctx context.Context, env *Envelope, code string) (*entity.Contact, error) {
	sp, err := env.Repos.SupplyPoints.ByCode(ctx, code, entity.LocationHSA)
	if err != nil {
		return nil, err
	}
	return env.Repos.Contacts.BySupplyPoint(ctx, sp.ID)
}
