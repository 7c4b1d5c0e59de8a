package sms

import (
	"context"

	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
)

// HelpHandler "help": lista de comandos. Disponible también sin registro.
type HelpHandler struct{}

// NewHelpHandler construye el handler de ayuda general.
func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) Keyword() string       { return "help|aidez" }
func (h *HelpHandler) ContactRequired() bool { return false }

func (h *HelpHandler) Help(ctx context.Context, env *Envelope) {
	env.Respond(ctx, messaging.MsgHelp, nil)
}

func (h *HelpHandler) Handle(ctx context.Context, env *Envelope, text string) error {
	h.Help(ctx, env)
	return nil
}
