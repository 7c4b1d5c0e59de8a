package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// RegisterHandler "reg <nombre> <código de punto>": crea el contacto del
// remitente. Exento del gate de contacto (es la única puerta de entrada).
// Un teléfono ya registrado se re-liga al nuevo punto con confirmación.
type RegisterHandler struct{}

// NewRegisterHandler construye el handler de registro.
func NewRegisterHandler() *RegisterHandler {
	return &RegisterHandler{}
}

func (h *RegisterHandler) Keyword() string       { return "reg|register" }
func (h *RegisterHandler) ContactRequired() bool { return false }

func (h *RegisterHandler) Help(ctx context.Context, env *Envelope) {
	env.Respond(ctx, messaging.MsgRegisterHelp, nil)
}

func (h *RegisterHandler) Handle(ctx context.Context, env *Envelope, text string) error {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		h.Help(ctx, env)
		return nil
	}
	code := fields[len(fields)-1]
	name := strings.Join(fields[:len(fields)-1], " ")

	sp, err := env.Repos.SupplyPoints.ByCode(ctx, code, "")
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			env.Respond(ctx, messaging.MsgUnknownSupplyPoint, map[string]string{"code": code})
			return nil
		}
		return fmt.Errorf("punto %s: %w", code, err)
	}

	role := entity.RoleInCharge
	if sp.Type == entity.LocationHSA {
		role = entity.RoleHSA
	}

	if env.Sender != nil {
		env.Sender.Name = name
		env.Sender.Role = role
		env.Sender.SupplyPointID = sp.ID
		if err := env.Repos.Contacts.Update(ctx, env.Sender); err != nil {
			return fmt.Errorf("re-registrar contacto: %w", err)
		}
	} else {
		contact := &entity.Contact{
			ID:            uuid.NewString(),
			Name:          name,
			Phone:         env.Phone,
			Role:          role,
			SupplyPointID: sp.ID,
			IsActive:      true,
		}
		if err := env.Repos.Contacts.Create(ctx, contact); err != nil {
			return fmt.Errorf("registrar contacto: %w", err)
		}
		env.Sender = contact
	}

	env.Respond(ctx, messaging.MsgRegisterConfirm, map[string]string{
		"name": name, "supply_point": sp.Name,
	})
	return nil
}
