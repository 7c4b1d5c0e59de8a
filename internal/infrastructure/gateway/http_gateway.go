package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

var _ messaging.Gateway = (*HTTPGateway)(nil)

// HTTPGateway adapter que entrega los mensajes a un proveedor de SMS vía
// HTTP POST. Fire-and-forget: el envío corre en su propia goroutine con su
// propio timeout; los fallos se loggean y nunca se reintentan ni afectan la
// transacción que originó el mensaje.
type HTTPGateway struct {
	url        string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewHTTPGateway construye el adapter contra la URL del proveedor.
func NewHTTPGateway(url, apiKey string, log *logger.Logger) *HTTPGateway {
	return &HTTPGateway{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

type outboundPayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

func (g *HTTPGateway) Send(ctx context.Context, to *entity.Contact, key messaging.MessageKey, params map[string]string) {
	g.deliver(to.Phone, messaging.Render(key, params))
}

func (g *HTTPGateway) SendRaw(ctx context.Context, phone string, key messaging.MessageKey, params map[string]string) {
	g.deliver(phone, messaging.Render(key, params))
}

// deliver hace el POST en background. Contexto propio: el envío no debe
// heredar la cancelación del request que lo originó.
func (g *HTTPGateway) deliver(phone, text string) {
	go func() {
		body, err := json.Marshal(outboundPayload{To: phone, Text: text})
		if err != nil {
			g.log.Error().Err(err).Str("to", phone).Msg("serializar sms saliente")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
		if err != nil {
			g.log.Error().Err(err).Str("to", phone).Msg("armar request al proveedor de sms")
			return
		}
		req.Header.Set("Content-Type", "application/json")
		if g.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+g.apiKey)
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			g.log.Warn().Err(err).Str("to", phone).Msg("sms saliente falló (best-effort, sin reintento)")
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			g.log.Warn().Int("status", resp.StatusCode).Str("to", phone).Msg("proveedor de sms rechazó el mensaje")
		}
	}()
}
