package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

// Handler maneja un comando por keyword. Keyword puede ser un conjunto de
// sinónimos separados por "|" (soporta varios idiomas para el mismo comando).
// Los handlers con ContactRequired true solo corren con remitente registrado.
type Handler interface {
	Keyword() string
	ContactRequired() bool
	// Help responde la ayuda del comando (resto vacío o token de ayuda).
	Help(ctx context.Context, env *Envelope)
	// Handle ejecuta el comando con el resto del mensaje ya sin el keyword.
	Handle(ctx context.Context, env *Envelope, text string) error
}

// Envelope contexto de un mensaje entrante: remitente resuelto (nil solo para
// handlers exentos del gate de contacto), repositorios de la transacción y
// acceso al gateway para responder.
type Envelope struct {
	Sender *entity.Contact
	Phone  string
	Raw    string
	Repos  Repos

	gateway messaging.Gateway
}

// Respond envía la respuesta al remitente del mensaje.
func (e *Envelope) Respond(ctx context.Context, key messaging.MessageKey, params map[string]string) {
	if e.Sender != nil {
		e.gateway.Send(ctx, e.Sender, key, params)
		return
	}
	e.gateway.SendRaw(ctx, e.Phone, key, params)
}

// Gateway acceso al gateway para mensajes a terceros (HSA, supervisores).
func (e *Envelope) Gateway() messaging.Gateway {
	return e.gateway
}

// Tokens de ayuda: "os ?" u "os help" muestran la ayuda del comando.
var helpTokens = map[string]bool{"?": true, "help": true}

// Dispatcher tabla inmutable de handlers construida una vez al arranque.
// Enruta cada mensaje entrante al handler cuyo conjunto de keywords coincide
// con la primera palabra (case-insensitive). Serializa los mensajes del mismo
// punto de suministro (single-writer por punto); remitentes distintos corren
// en paralelo.
type Dispatcher struct {
	handlers []Handler
	byKey    map[string]Handler
	tx       TxRunner
	gateway  messaging.Gateway
	log      *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDispatcher valida que los keywords de todos los handlers sean disjuntos
// dos a dos (tras case folding). Un solapamiento es un error de configuración:
// el proceso no debe servir mensajes con la tabla inválida.
func NewDispatcher(tx TxRunner, gateway messaging.Gateway, log *logger.Logger, handlers ...Handler) (*Dispatcher, error) {
	byKey := make(map[string]Handler)
	for _, h := range handlers {
		for _, kw := range strings.Split(h.Keyword(), "|") {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("handler %q: keyword vacío: %w", h.Keyword(), domain.ErrInvalidInput)
			}
			if _, taken := byKey[kw]; taken {
				return nil, fmt.Errorf("keyword %q: %w", kw, domain.ErrDuplicateKeyword)
			}
			byKey[kw] = h
		}
	}
	return &Dispatcher{
		handlers: handlers,
		byKey:    byKey,
		tx:       tx,
		gateway:  gateway,
		log:      log,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// Dispatch procesa un mensaje entrante de principio a fin: resuelve el
// remitente, serializa por punto de suministro y corre el handler dentro de
// una transacción. El propio dispatcher solo envía el prompt de registro y la
// respuesta a mensajes no reconocidos.
func (d *Dispatcher) Dispatch(ctx context.Context, phone, text string) error {
	unlock := d.lockFor(ctx, phone)
	defer unlock()

	return d.tx.Run(ctx, func(repos Repos) error {
		sender, err := repos.Contacts.ByPhone(ctx, phone)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("resolver remitente %s: %w", phone, err)
		}

		keyword, rest := splitKeyword(text)
		handler, matched := d.byKey[keyword]

		d.logInbound(ctx, repos, sender, phone, text, matched)

		if !matched {
			// Fallback por defecto: queda registrado como no reconocido y,
			// si el remitente está registrado, se le avisa.
			d.log.Info().Str("phone", phone).Str("keyword", keyword).Msg("mensaje no reconocido")
			if sender != nil {
				d.gateway.Send(ctx, sender, messaging.MsgUnrecognized, nil)
			}
			return nil
		}

		if handler.ContactRequired() && sender == nil {
			// Gate contacto-requerido: el mensaje nunca llega al handler.
			d.gateway.SendRaw(ctx, phone, messaging.MsgRegistrationRequired, nil)
			return nil
		}

		env := &Envelope{Sender: sender, Phone: phone, Raw: text, Repos: repos, gateway: d.gateway}
		if rest == "" || helpTokens[strings.ToLower(rest)] {
			handler.Help(ctx, env)
			return nil
		}
		return handler.Handle(ctx, env, rest)
	})
}

// lockFor serializa por punto de suministro del remitente; los teléfonos sin
// contacto se serializan por teléfono (van a registro o al prompt).
func (d *Dispatcher) lockFor(ctx context.Context, phone string) func() {
	key := "phone:" + phone
	var sender *entity.Contact
	err := d.tx.Run(ctx, func(repos Repos) error {
		c, err := repos.Contacts.ByPhone(ctx, phone)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		sender = c
		return nil
	})
	if err == nil && sender != nil {
		key = "sp:" + sender.SupplyPointID
	}

	d.mu.Lock()
	l, ok := d.locks[key]
	if !ok {
		l = &sync.Mutex{}
		d.locks[key] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (d *Dispatcher) logInbound(ctx context.Context, repos Repos, sender *entity.Contact, phone, text string, recognized bool) {
	m := &entity.MessageLog{
		ID:           uuid.NewString(),
		Phone:        phone,
		Direction:    entity.DirectionIn,
		Text:         text,
		Unrecognized: !recognized,
		CreatedAt:    time.Now().UTC(),
	}
	if sender != nil {
		m.ContactID = sender.ID
	}
	if err := repos.Messages.Append(ctx, m); err != nil {
		d.log.Warn().Err(err).Str("phone", phone).Msg("no se pudo registrar el mensaje entrante")
	}
}

// splitKeyword separa la primera palabra (case-folded) del resto del mensaje.
func splitKeyword(text string) (keyword, rest string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	return strings.ToLower(fields[0]), strings.TrimSpace(strings.Join(fields[1:], " "))
}
