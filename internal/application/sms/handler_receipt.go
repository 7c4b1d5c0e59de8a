package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Reabasto-api/internal/application/ledger"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/domain"
)

// ReceiptHandler "rec <código> <cantidad> ...": el agente confirma lo que
// recibió. Suma al stock vivo, cierra la solicitud pendiente del producto (si
// la hay) con la cantidad recibida y estampa last_reported.
type ReceiptHandler struct{}

// NewReceiptHandler construye el handler de recepción.
func NewReceiptHandler() *ReceiptHandler {
	return &ReceiptHandler{}
}

func (h *ReceiptHandler) Keyword() string       { return "rec|received" }
func (h *ReceiptHandler) ContactRequired() bool { return true }

func (h *ReceiptHandler) Help(ctx context.Context, env *Envelope) {
	env.Respond(ctx, messaging.MsgReceiptHelp, nil)
}

func (h *ReceiptHandler) Handle(ctx context.Context, env *Envelope, text string) error {
	pairs, err := parsePairs(text)
	if err != nil {
		h.Help(ctx, env)
		return nil
	}

	now := time.Now().UTC()
	svc := ledger.New(env.Repos.Requests, env.Repos.Stocks)
	spID := env.Sender.SupplyPointID

	pending, err := svc.Pending(ctx, spID)
	if err != nil {
		return fmt.Errorf("pendientes: %w", err)
	}
	pendingByProduct := make(map[string]int, len(pending))
	for i, req := range pending {
		// Primera pendiente por producto; Pending preserva orden de creación.
		if _, seen := pendingByProduct[req.ProductID]; !seen {
			pendingByProduct[req.ProductID] = i
		}
	}

	var received []string
	for _, pair := range pairs {
		product, err := env.Repos.Products.BySMSCode(ctx, pair.code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				env.Respond(ctx, messaging.MsgUnknownProduct, map[string]string{"product": pair.code})
				return nil
			}
			return fmt.Errorf("producto %s: %w", pair.code, err)
		}
		if err := svc.AddStock(ctx, spID, product.ID, pair.qty, now); err != nil {
			return err
		}
		if idx, ok := pendingByProduct[product.ID]; ok {
			if err := svc.RespondWithQuantity(ctx, pending[idx], pair.qty, env.Sender.ID, now); err != nil {
				return err
			}
			delete(pendingByProduct, product.ID)
		}
		received = append(received, fmt.Sprintf("%s %d", product.SMSCode, pair.qty))
	}

	if err := env.Repos.SupplyPoints.UpdateLastReported(ctx, spID, now); err != nil {
		return fmt.Errorf("estampar last_reported: %w", err)
	}
	env.Respond(ctx, messaging.MsgReceiptConfirm, map[string]string{"products": strings.Join(received, ", ")})
	return nil
}
