package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Reabasto-api/internal/application/dto"
	"github.com/jhoicas/Reabasto-api/internal/application/sms"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

// SMSHandler recibe los mensajes entrantes reenviados por el gateway SMS.
type SMSHandler struct {
	dispatcher *sms.Dispatcher
	log        *logger.Logger
}

// NewSMSHandler construye el handler de mensajes entrantes.
func NewSMSHandler(dispatcher *sms.Dispatcher, log *logger.Logger) *SMSHandler {
	return &SMSHandler{dispatcher: dispatcher, log: log}
}

// Inbound procesa un mensaje entrante. Las respuestas al remitente salen por
// el gateway de mensajería, no por esta respuesta HTTP.
func (h *SMSHandler) Inbound(c *fiber.Ctx) error {
	var in dto.InboundSMSRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.Phone = strings.TrimSpace(in.Phone)
	in.Text = strings.TrimSpace(in.Text)
	if in.Phone == "" || in.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "phone y text son requeridos"})
	}

	if err := h.dispatcher.Dispatch(c.UserContext(), in.Phone, in.Text); err != nil {
		h.log.Error().Err(err).Str("phone", in.Phone).Msg("error procesando mensaje entrante")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo procesar el mensaje"})
	}
	return c.JSON(dto.InboundSMSResponse{Accepted: true})
}
