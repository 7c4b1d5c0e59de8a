package escalation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reabasto-api/internal/application/escalation"
	"github.com/jhoicas/Reabasto-api/internal/application/ledger"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/application/sms"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/infrastructure/gateway"
	"github.com/jhoicas/Reabasto-api/internal/infrastructure/memory"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

const (
	phoneResponder  = "+265222001"
	phoneAgent      = "+265222002"
	phonePharmacist = "+265222003"
)

type escenario struct {
	repos     sms.Repos
	svc       *ledger.Service
	engine    *escalation.Engine
	recorder  *gateway.Recorder
	responder *entity.Contact
	hsa       *entity.Contact
}

// newEscenario responder en un centro abastecido por el distrito, HSA debajo
// del centro y un farmacéutico de distrito como supervisor. conSupervisor
// false omite los contactos del distrito.
func newEscenario(t *testing.T, conSupervisor bool) *escenario {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	sps := []*entity.SupplyPoint{
		{ID: "sp-dist", Code: "26", Name: "Farmacia Distrital", Type: entity.LocationDistrict, LocationID: "loc-dist", IsActive: true},
		{ID: "sp-hf", Code: "nkh", Name: "Centro Nkhunga", Type: entity.LocationFacility, LocationID: "loc-hf", SuppliedByID: "sp-dist", IsActive: true},
		{ID: "sp-hsa", Code: "2616", Name: "Zona 2616", Type: entity.LocationHSA, LocationID: "loc-hsa", SuppliedByID: "sp-hf", IsActive: true},
	}
	for _, sp := range sps {
		require.NoError(t, repos.SupplyPoints.Create(ctx, sp))
	}

	e := &escenario{repos: repos}
	e.responder = &entity.Contact{ID: "c-ic", Name: "Banda", Phone: phoneResponder, Role: entity.RoleInCharge, SupplyPointID: "sp-hf", IsActive: true}
	e.hsa = &entity.Contact{ID: "c-hsa", Name: "Chimwemwe", Phone: phoneAgent, Role: entity.RoleHSA, SupplyPointID: "sp-hsa", IsActive: true}
	require.NoError(t, repos.Contacts.Create(ctx, e.responder))
	require.NoError(t, repos.Contacts.Create(ctx, e.hsa))
	if conSupervisor {
		require.NoError(t, repos.Contacts.Create(ctx, &entity.Contact{
			ID: "c-dp", Name: "Phiri", Phone: phonePharmacist, Role: entity.RoleDistrictPharmacist, SupplyPointID: "sp-dist", IsActive: true,
		}))
	}

	for _, p := range []*entity.Product{
		{ID: "prod-co", SMSCode: "co", Name: "Cotrimoxazole"},
		{ID: "prod-or", SMSCode: "or", Name: "Sales de rehidratación"},
		{ID: "prod-zi", SMSCode: "zi", Name: "Zinc"},
	} {
		require.NoError(t, repos.Products.Create(ctx, p))
	}

	e.svc = ledger.New(repos.Requests, repos.Stocks)
	e.recorder = gateway.NewRecorder()
	e.engine = escalation.New(
		repos.Contacts, repos.SupplyPoints, repos.Products,
		e.svc, e.recorder, escalation.DefaultConfig(), logger.Nop(),
	)
	return e
}

// closedRequest crea una solicitud y la cierra con la cantidad dada (0 la
// marca stocked_out).
func (e *escenario) closedRequest(t *testing.T, productID string, emergency bool, received int64) *entity.StockRequest {
	t.Helper()
	now := time.Now().UTC()
	req, err := e.svc.Create(context.Background(), "sp-hsa", productID, 10, emergency, e.hsa.ID, now)
	require.NoError(t, err)
	if received == 0 {
		require.NoError(t, e.svc.MarkStockout(context.Background(), req, e.responder.ID, now))
	} else {
		require.NoError(t, e.svc.RespondWithQuantity(context.Background(), req, received, e.responder.ID, now))
	}
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de decisión
// ──────────────────────────────────────────────────────────────────────────────

func TestEscalate_EmergenciaYStockout(t *testing.T) {
	e := newEscenario(t, true)
	reqs := []*entity.StockRequest{
		e.closedRequest(t, "prod-co", true, 0),
		e.closedRequest(t, "prod-or", false, 0),
	}

	result, err := e.engine.Escalate(context.Background(), e.responder, e.hsa, reqs, time.Now().UTC())
	require.NoError(t, err)

	msgs := e.recorder.To(phoneResponder)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgHFUnableRestockBoth, msgs[0].Key)

	sup := e.recorder.To(phonePharmacist)
	require.Len(t, sup, 1)
	assert.Equal(t, messaging.MsgDistrictStockout, sup[0].Key)
	assert.True(t, result.Supervisors.Delivered())
	assert.Len(t, result.Reported, 2, "ambas están stocked_out, ambas se reportan")
}

func TestEscalate_SoloEmergencias(t *testing.T) {
	e := newEscenario(t, true)
	reqs := []*entity.StockRequest{
		e.closedRequest(t, "prod-co", true, 4), // emergencia cerrada parcial, no stockout
		e.closedRequest(t, "prod-or", false, 6),
	}

	result, err := e.engine.Escalate(context.Background(), e.responder, e.hsa, reqs, time.Now().UTC())
	require.NoError(t, err)

	msgs := e.recorder.To(phoneResponder)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgHFUnableRestockEmergency, msgs[0].Key)
	assert.Equal(t, "co", msgs[0].Params["products"], "solo el subconjunto de emergencia se reporta")

	hsaMsgs := e.recorder.To(phoneAgent)
	require.Len(t, hsaMsgs, 1)
	assert.Equal(t, messaging.MsgHSAUnableRestockEO, hsaMsgs[0].Key)

	sup := e.recorder.To(phonePharmacist)
	require.Len(t, sup, 1)
	assert.Equal(t, messaging.MsgDistrictEmergency, sup[0].Key)

	require.Len(t, result.Reported, 1)
	assert.Equal(t, "prod-co", result.Reported[0].ProductID)
}

func TestEscalate_SinEmergenciasNiStockouts(t *testing.T) {
	e := newEscenario(t, true)
	reqs := []*entity.StockRequest{
		e.closedRequest(t, "prod-co", false, 4),
	}

	result, err := e.engine.Escalate(context.Background(), e.responder, e.hsa, reqs, time.Now().UTC())
	require.NoError(t, err)

	msgs := e.recorder.To(phoneResponder)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgHFUnableRestockAnything, msgs[0].Key)

	hsaMsgs := e.recorder.To(phoneAgent)
	require.Len(t, hsaMsgs, 1)
	assert.Equal(t, messaging.MsgHSAUnableRestockAnything, hsaMsgs[0].Key)

	sup := e.recorder.To(phonePharmacist)
	require.Len(t, sup, 1)
	assert.Equal(t, messaging.MsgDistrictNormal, sup[0].Key)

	assert.Len(t, result.Reported, 1)
}

// El subconjunto reportado se elige por prioridad: habiendo stockouts, las
// emergencias no stockout quedan fuera del reporte aunque sean más.
func TestEscalate_PrioridadDeStockoutsSobreEmergencias(t *testing.T) {
	e := newEscenario(t, true)
	reqs := []*entity.StockRequest{
		e.closedRequest(t, "prod-co", true, 3),
		e.closedRequest(t, "prod-or", true, 5),
		e.closedRequest(t, "prod-zi", false, 0), // el único stockout
	}

	result, err := e.engine.Escalate(context.Background(), e.responder, e.hsa, reqs, time.Now().UTC())
	require.NoError(t, err)

	require.Len(t, result.Reported, 1)
	assert.Equal(t, "prod-zi", result.Reported[0].ProductID)

	msgs := e.recorder.To(phoneResponder)
	require.Len(t, msgs, 1)
	assert.Equal(t, "zi", msgs[0].Params["products"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Supervisores y stock forzado
// ──────────────────────────────────────────────────────────────────────────────

// Sin supervisor registrado en el distrito la escalada termina sin error: los
// demás mensajes salen y Delivered queda en false.
func TestEscalate_SinSupervisoresNoEsError(t *testing.T) {
	e := newEscenario(t, false)
	reqs := []*entity.StockRequest{e.closedRequest(t, "prod-co", false, 0)}

	result, err := e.engine.Escalate(context.Background(), e.responder, e.hsa, reqs, time.Now().UTC())
	require.NoError(t, err)

	assert.False(t, result.Supervisors.Delivered())
	assert.Empty(t, result.Supervisors.Recipients)
	assert.Len(t, e.recorder.To(phoneResponder), 1)
	assert.Len(t, e.recorder.To(phoneAgent), 1)
}

func TestEscalate_FuerzaStockVivoACeroSoloDelReportado(t *testing.T) {
	e := newEscenario(t, true)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, productID := range []string{"prod-co", "prod-or"} {
		require.NoError(t, e.repos.Stocks.Upsert(ctx, &entity.ProductStock{
			SupplyPointID:      "sp-hsa",
			ProductID:          productID,
			Quantity:           30,
			MonthlyConsumption: decimal.NewFromInt(10),
			UpdatedAt:          now,
		}))
	}

	reqs := []*entity.StockRequest{
		e.closedRequest(t, "prod-co", false, 0), // stockout: reportado
		e.closedRequest(t, "prod-or", true, 5),  // emergencia parcial: fuera del reporte
	}
	// MarkStockout ya forzó prod-co a 0; lo subimos para verificar que la
	// escalada vuelve a forzarlo.
	require.NoError(t, e.svc.SetStock(ctx, "sp-hsa", "prod-co", 30, now))

	_, err := e.engine.Escalate(ctx, e.responder, e.hsa, reqs, now)
	require.NoError(t, err)

	co, err := e.repos.Stocks.Get(ctx, "sp-hsa", "prod-co")
	require.NoError(t, err)
	assert.Equal(t, int64(0), co.Quantity)

	or, err := e.repos.Stocks.Get(ctx, "sp-hsa", "prod-or")
	require.NoError(t, err)
	assert.Equal(t, int64(30), or.Quantity, "lo no reportado conserva su stock vivo")
}
