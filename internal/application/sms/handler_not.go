package sms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// NotReceivedHandler "not del" / "not sub": registra como evento de estado que
// la entrega no llegó o que el reporte no se envió. El keyword lleva los
// sinónimos de los idiomas soportados ("hapana" es el equivalente en swahili).
type NotReceivedHandler struct{}

// NewNotReceivedHandler construye el handler.
func NewNotReceivedHandler() *NotReceivedHandler {
	return &NotReceivedHandler{}
}

func (h *NotReceivedHandler) Keyword() string       { return "not|no|hapana" }
func (h *NotReceivedHandler) ContactRequired() bool { return true }

func (h *NotReceivedHandler) Help(ctx context.Context, env *Envelope) {
	env.Respond(ctx, messaging.MsgNotHelp, nil)
}

func (h *NotReceivedHandler) Handle(ctx context.Context, env *Envelope, text string) error {
	sub := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(sub, "del"):
		if err := h.append(ctx, env, entity.StatusDeliveryFacility, entity.StatusNotReceived); err != nil {
			return err
		}
		env.Respond(ctx, messaging.MsgNotDeliveredConfirm, nil)
	case strings.HasPrefix(sub, "sub"):
		if err := h.append(ctx, env, entity.StatusReportFacility, entity.StatusNotSubmitted); err != nil {
			return err
		}
		env.Respond(ctx, messaging.MsgNotSubmittedConfirm, nil)
	default:
		h.Help(ctx, env)
	}
	return nil
}

func (h *NotReceivedHandler) append(ctx context.Context, env *Envelope, st entity.StatusType, sv entity.StatusValue) error {
	status := &entity.SupplyPointStatus{
		ID:            uuid.NewString(),
		SupplyPointID: env.Sender.SupplyPointID,
		StatusType:    st,
		StatusValue:   sv,
		CreatedAt:     time.Now().UTC(),
	}
	if err := env.Repos.Statuses.Append(ctx, status); err != nil {
		return fmt.Errorf("registrar estado %s/%s: %w", st, sv, err)
	}
	return nil
}
