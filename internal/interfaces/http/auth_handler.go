package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Reabasto-api/internal/application/dto"
	"github.com/jhoicas/Reabasto-api/pkg/config"
	"github.com/jhoicas/Reabasto-api/pkg/jwt"
)

// AuthHandler emite tokens para el API de reportes contra la clave compartida.
type AuthHandler struct {
	jwtCfg    config.JWTConfig
	accessKey string
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(jwtCfg config.JWTConfig, accessKey string) *AuthHandler {
	return &AuthHandler{jwtCfg: jwtCfg, accessKey: accessKey}
}

// Token emite un JWT de scope "reports" si la clave compartida coincide.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.TokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ClientID == "" || in.AccessKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "client_id y access_key son requeridos"})
	}
	if h.accessKey == "" || subtle.ConstantTimeCompare([]byte(in.AccessKey), []byte(h.accessKey)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	token, err := jwt.Generate(h.jwtCfg.Secret, in.ClientID, "reports", h.jwtCfg.Issuer, h.jwtCfg.Expiration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.TokenResponse{Token: token, ExpiresIn: h.jwtCfg.Expiration * 60})
}
