package escalation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Reabasto-api/internal/application/ledger"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

// Config roles que cuentan como supervisores al escalar (por defecto el
// farmacéutico de distrito y el coordinador IMCI).
type Config struct {
	SupervisorRoles []string
}

// DefaultConfig conjunto supervisor estándar.
func DefaultConfig() Config {
	return Config{SupervisorRoles: []string{entity.RoleDistrictPharmacist, entity.RoleIMCICoordinator}}
}

// SupervisorResult resultado explícito de la resolución de supervisores:
// Delivered con destinatarios, o NoRecipients. Que no haya supervisor
// registrado es un desenlace reconocido (datos de registro incompletos),
// no un error.
type SupervisorResult struct {
	Recipients []*entity.Contact
}

// Delivered true si la notificación llegó a al menos un supervisor.
func (r SupervisorResult) Delivered() bool {
	return len(r.Recipients) > 0
}

// Result desenlace de una escalada: el subconjunto de solicitudes reportado
// y el resultado de la notificación a supervisores.
type Result struct {
	Reported    []*entity.StockRequest
	Supervisors SupervisorResult
}

// Engine fan-out de notificaciones tras un cierre desfavorable. Decide quién
// recibe qué según la tabla: emergencias y stockouts presentes → aviso de
// stockout al distrito; solo emergencias → aviso de emergencia; nada de eso →
// aviso normal. El subconjunto de productos reportado se elige por prioridad:
// stockouts, si no emergencias, si no todas las pendientes.
type Engine struct {
	contacts     repository.ContactRepository
	supplyPoints repository.SupplyPointRepository
	products     repository.ProductRepository
	ledger       *ledger.Service
	gateway      messaging.Gateway
	cfg          Config
	log          *logger.Logger
}

// New construye el engine con repositorios atados a la transacción del mensaje.
func New(
	contacts repository.ContactRepository,
	supplyPoints repository.SupplyPointRepository,
	products repository.ProductRepository,
	ledgerSvc *ledger.Service,
	gateway messaging.Gateway,
	cfg Config,
	log *logger.Logger,
) *Engine {
	return &Engine{
		contacts:     contacts,
		supplyPoints: supplyPoints,
		products:     products,
		ledger:       ledgerSvc,
		gateway:      gateway,
		cfg:          cfg,
		log:          log,
	}
}

// Escalate notifica el cierre desfavorable de closed (las solicitudes recién
// cerradas de un mismo evento de respuesta). responder es quien respondió el
// pedido; hsa el agente dueño de las solicitudes. Tras notificar, fuerza a 0
// el stock vivo de cada producto del subconjunto reportado; el ledger conserva
// lo realmente recibido (divergencia intencional para que las alertas de stock
// queden conservadoras).
func (e *Engine) Escalate(ctx context.Context, responder, hsa *entity.Contact, closed []*entity.StockRequest, now time.Time) (Result, error) {
	emergencies := filter(closed, func(r *entity.StockRequest) bool { return r.IsEmergency })
	stockouts := filter(closed, func(r *entity.StockRequest) bool {
		return r.ResponseStatus == entity.ResponseStockedOut
	})

	// Prioridad del subconjunto reportado: stockouts, emergencias, todas.
	reported := closed
	if len(stockouts) > 0 {
		reported = stockouts
	} else if len(emergencies) > 0 {
		reported = emergencies
	}

	productList, err := e.productCodes(ctx, reported)
	if err != nil {
		return Result{}, err
	}

	var responderKey, supervisorKey messaging.MessageKey
	switch {
	case len(emergencies) > 0 && len(stockouts) > 0:
		responderKey, supervisorKey = messaging.MsgHFUnableRestockBoth, messaging.MsgDistrictStockout
	case len(emergencies) > 0:
		responderKey, supervisorKey = messaging.MsgHFUnableRestockEmergency, messaging.MsgDistrictEmergency
	default:
		responderKey, supervisorKey = messaging.MsgHFUnableRestockAnything, messaging.MsgDistrictNormal
	}

	e.gateway.Send(ctx, responder, responderKey, map[string]string{"products": productList})
	if len(emergencies) > 0 {
		e.gateway.Send(ctx, hsa, messaging.MsgHSAUnableRestockEO, map[string]string{
			"hsa": hsa.Name, "products": productList,
		})
	} else {
		e.gateway.Send(ctx, hsa, messaging.MsgHSAUnableRestockAnything, map[string]string{"hsa": hsa.Name})
	}

	supervisors, err := e.notifySupervisors(ctx, responder, supervisorKey, productList)
	if err != nil {
		return Result{}, err
	}

	for _, req := range reported {
		if err := e.ledger.ForceStockZero(ctx, req.SupplyPointID, req.ProductID, now); err != nil {
			return Result{}, err
		}
	}
	return Result{Reported: reported, Supervisors: supervisors}, nil
}

// notifySupervisors sube un nivel por supplied_by desde el punto del que
// responde y avisa a los contactos activos con rol supervisor. Sin punto
// superior o sin contactos que casen, la notificación se descarta en silencio
// (camino degradado esperado, se loggea).
func (e *Engine) notifySupervisors(ctx context.Context, responder *entity.Contact, key messaging.MessageKey, productList string) (SupervisorResult, error) {
	sp, err := e.supplyPoints.ByID(ctx, responder.SupplyPointID)
	if err != nil {
		return SupervisorResult{}, fmt.Errorf("punto del que responde: %w", err)
	}
	if sp.SuppliedByID == "" {
		e.log.Info().Str("supply_point", sp.Code).Msg("sin punto superior, escalada sin supervisores")
		return SupervisorResult{}, nil
	}
	supervisors, err := e.contacts.ActiveBySupplyPointAndRoles(ctx, sp.SuppliedByID, e.cfg.SupervisorRoles)
	if err != nil {
		return SupervisorResult{}, fmt.Errorf("resolver supervisores: %w", err)
	}
	if len(supervisors) == 0 {
		e.log.Info().Str("supply_point", sp.Code).Msg("sin supervisores registrados, escalada descartada")
		return SupervisorResult{}, nil
	}
	for _, sup := range supervisors {
		e.gateway.Send(ctx, sup, key, map[string]string{
			"contact":      responder.Name,
			"supply_point": sp.Name,
			"products":     productList,
		})
	}
	return SupervisorResult{Recipients: supervisors}, nil
}

// productCodes lista de códigos SMS de los productos de reqs, unida por comas.
func (e *Engine) productCodes(ctx context.Context, reqs []*entity.StockRequest) (string, error) {
	codes := make([]string, 0, len(reqs))
	for _, r := range reqs {
		p, err := e.products.ByID(ctx, r.ProductID)
		if err != nil {
			return "", fmt.Errorf("producto %s: %w", r.ProductID, err)
		}
		codes = append(codes, p.SMSCode)
	}
	return strings.Join(codes, ", "), nil
}

func filter(reqs []*entity.StockRequest, keep func(*entity.StockRequest) bool) []*entity.StockRequest {
	var out []*entity.StockRequest
	for _, r := range reqs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
