package sms_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reabasto-api/internal/application/escalation"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/application/sms"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/infrastructure/gateway"
	"github.com/jhoicas/Reabasto-api/internal/infrastructure/memory"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

// Teléfonos del escenario de prueba: un HSA, su encargado de centro y los dos
// supervisores de distrito.
const (
	phoneHSA      = "+265111001"
	phoneInCharge = "+265111002"
	phonePharma   = "+265111003"
	phoneIMCI     = "+265111004"
	phoneUnknown  = "+265119999"
)

// fixture jerarquía mínima de cuatro niveles con un contacto por punto y un
// catálogo de tres productos.
type fixture struct {
	store      *memory.Store
	recorder   *gateway.Recorder
	dispatcher *sms.Dispatcher
	repos      sms.Repos

	hsaSP      *entity.SupplyPoint
	hfSP       *entity.SupplyPoint
	distSP     *entity.SupplyPoint
	hsaContact *entity.Contact
	productCo  *entity.Product
	productOr  *entity.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	locations := memory.NewLocationRepository(store)
	locNat := &entity.LocationNode{ID: "loc-nat", Code: "mw", Name: "Nacional", Type: entity.LocationNational, IsActive: true}
	locDist := &entity.LocationNode{ID: "loc-dist", Code: "26", Name: "Nkhotakota", Type: entity.LocationDistrict, ParentID: "loc-nat", IsActive: true}
	locHF := &entity.LocationNode{ID: "loc-hf", Code: "nkh", Name: "Centro Nkhunga", Type: entity.LocationFacility, ParentID: "loc-dist", IsActive: true}
	locHSA := &entity.LocationNode{ID: "loc-hsa", Code: "2616", Name: "Zona 2616", Type: entity.LocationHSA, ParentID: "loc-hf", IsActive: true}
	for _, n := range []*entity.LocationNode{locNat, locDist, locHF, locHSA} {
		locations.Add(n)
	}

	f := &fixture{store: store, repos: repos}
	f.distSP = &entity.SupplyPoint{ID: "sp-dist", Code: "26", Name: "Farmacia Distrital", Type: entity.LocationDistrict, LocationID: "loc-dist", IsActive: true}
	f.hfSP = &entity.SupplyPoint{ID: "sp-hf", Code: "nkh", Name: "Centro Nkhunga", Type: entity.LocationFacility, LocationID: "loc-hf", SuppliedByID: "sp-dist", IsActive: true}
	f.hsaSP = &entity.SupplyPoint{ID: "sp-hsa", Code: "2616", Name: "Zona 2616", Type: entity.LocationHSA, LocationID: "loc-hsa", SuppliedByID: "sp-hf", IsActive: true}
	for _, sp := range []*entity.SupplyPoint{f.distSP, f.hfSP, f.hsaSP} {
		require.NoError(t, repos.SupplyPoints.Create(ctx, sp))
	}

	f.hsaContact = &entity.Contact{ID: "c-hsa", Name: "Chimwemwe", Phone: phoneHSA, Role: entity.RoleHSA, SupplyPointID: "sp-hsa", IsActive: true}
	contacts := []*entity.Contact{
		f.hsaContact,
		{ID: "c-ic", Name: "Banda", Phone: phoneInCharge, Role: entity.RoleInCharge, SupplyPointID: "sp-hf", IsActive: true},
		{ID: "c-dp", Name: "Phiri", Phone: phonePharma, Role: entity.RoleDistrictPharmacist, SupplyPointID: "sp-dist", IsActive: true},
		{ID: "c-im", Name: "Mwale", Phone: phoneIMCI, Role: entity.RoleIMCICoordinator, SupplyPointID: "sp-dist", IsActive: true},
	}
	for _, c := range contacts {
		require.NoError(t, repos.Contacts.Create(ctx, c))
	}

	f.productCo = &entity.Product{ID: "prod-co", SMSCode: "co", Name: "Cotrimoxazole", Units: "tabletas"}
	f.productOr = &entity.Product{ID: "prod-or", SMSCode: "or", Name: "Sales de rehidratación", Units: "sobres"}
	products := []*entity.Product{
		f.productCo, f.productOr,
		{ID: "prod-zi", SMSCode: "zi", Name: "Zinc", Units: "tabletas"},
	}
	for _, p := range products {
		require.NoError(t, repos.Products.Create(ctx, p))
	}

	f.recorder = gateway.NewRecorder()
	dispatcher, err := sms.NewDispatcher(memory.NewTxRunner(store), f.recorder, logger.Nop(),
		sms.NewRegisterHandler(),
		sms.NewStockOnHandHandler(sms.DefaultStockConfig()),
		sms.NewEmergencyOrderHandler(sms.DefaultStockConfig()),
		sms.NewReceiptHandler(),
		sms.NewStockoutHandler(escalation.DefaultConfig(), logger.Nop()),
		sms.NewNotReceivedHandler(),
		sms.NewHelpHandler(),
	)
	require.NoError(t, err)
	f.dispatcher = dispatcher
	return f
}

// setConsumption deja un registro de stock con consumo mensual estimado, base
// del dimensionado de pedidos.
func (f *fixture) setConsumption(t *testing.T, spID, productID string, monthly float64, quantity int64) {
	t.Helper()
	require.NoError(t, f.repos.Stocks.Upsert(context.Background(), &entity.ProductStock{
		SupplyPointID:      spID,
		ProductID:          productID,
		Quantity:           quantity,
		MonthlyConsumption: decimal.NewFromFloat(monthly),
		UpdatedAt:          time.Now().UTC(),
	}))
}

func (f *fixture) dispatch(t *testing.T, phone, text string) {
	t.Helper()
	require.NoError(t, f.dispatcher.Dispatch(context.Background(), phone, text))
}

// ──────────────────────────────────────────────────────────────────────────────
// Construcción del dispatcher
// ──────────────────────────────────────────────────────────────────────────────

// Dos handlers que comparten un keyword son un error de configuración: el
// constructor debe fallar en vez de dejar el enrutamiento ambiguo.
func TestNewDispatcher_KeywordCompartidoFalla(t *testing.T) {
	store := memory.NewStore()
	_, err := sms.NewDispatcher(memory.NewTxRunner(store), gateway.NewRecorder(), logger.Nop(),
		sms.NewStockOnHandHandler(sms.DefaultStockConfig()),
		sms.NewStockOnHandHandler(sms.DefaultStockConfig()),
	)
	assert.ErrorIs(t, err, domain.ErrDuplicateKeyword)
}

// ──────────────────────────────────────────────────────────────────────────────
// Enrutamiento y gates
// ──────────────────────────────────────────────────────────────────────────────

func TestDispatch_NoRegistradoRecibePromptDeRegistro(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneUnknown, "soh co 5")

	msgs := f.recorder.To(phoneUnknown)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgRegistrationRequired, msgs[0].Key,
		"un remitente sin contacto nunca llega al handler")
}

func TestDispatch_MensajeNoReconocido(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneHSA, "xyzzy 42")

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgUnrecognized, msgs[0].Key)

	logged, err := f.repos.Messages.Unrecognized(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, "xyzzy 42", logged[0].Text, "el mensaje queda en el log para revisión")
}

// Un remitente no registrado con mensaje no reconocido no recibe nada: no hay
// contacto al que responder y el prompt de registro solo sale para keywords
// válidos.
func TestDispatch_NoReconocidoDeNoRegistradoEsSilencioso(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneUnknown, "xyzzy 42")

	assert.Empty(t, f.recorder.To(phoneUnknown))
}

func TestDispatch_TokenDeAyuda(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneHSA, "soh")
	f.dispatch(t, phoneHSA, "soh ?")
	f.dispatch(t, phoneHSA, "soh help")

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 3)
	for _, m := range msgs {
		assert.Equal(t, messaging.MsgSohHelp, m.Key)
	}
}

func TestDispatch_KeywordEsCaseInsensitive(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneHSA, "SOH ?")

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgSohHelp, msgs[0].Key)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaContactoNuevo(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneUnknown, "reg Maria Gondwe 2616")

	contact, err := f.repos.Contacts.ByPhone(context.Background(), phoneUnknown)
	require.NoError(t, err)
	assert.Equal(t, "Maria Gondwe", contact.Name)
	assert.Equal(t, entity.RoleHSA, contact.Role, "registrarse en un punto hsa asigna rol hsa")
	assert.Equal(t, "sp-hsa", contact.SupplyPointID)

	msgs := f.recorder.To(phoneUnknown)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgRegisterConfirm, msgs[0].Key)
	assert.Contains(t, msgs[0].Text, "Maria Gondwe")
	assert.Contains(t, msgs[0].Text, "Zona 2616")
}

func TestRegister_ReLigaContactoExistente(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneHSA, "reg Chimwemwe nkh")

	contact, err := f.repos.Contacts.ByPhone(context.Background(), phoneHSA)
	require.NoError(t, err)
	assert.Equal(t, "sp-hf", contact.SupplyPointID, "el teléfono queda ligado al nuevo punto")
	assert.Equal(t, entity.RoleInCharge, contact.Role, "un punto no-hsa asigna rol de encargado")
}

func TestRegister_PuntoDesconocido(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneUnknown, "reg Maria 9999")

	msgs := f.recorder.To(phoneUnknown)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgUnknownSupplyPoint, msgs[0].Key)

	_, err := f.repos.Contacts.ByPhone(context.Background(), phoneUnknown)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sin punto válido no se crea contacto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte de stock y pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestSoh_AbreSolicitudSegunConsumo(t *testing.T) {
	f := newFixture(t)
	// Consumo 10/mes, objetivo 2 meses → nivel máximo 20. Reporta 5 → pide 15.
	f.setConsumption(t, "sp-hsa", "prod-co", 10, 0)

	f.dispatch(t, phoneHSA, "soh co 5")

	pending, err := f.repos.Requests.Pending(context.Background(), "sp-hsa")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(15), pending[0].AmountRequested)
	assert.False(t, pending[0].IsEmergency)

	ps, err := f.repos.Stocks.Get(context.Background(), "sp-hsa", "prod-co")
	require.NoError(t, err)
	assert.Equal(t, int64(5), ps.Quantity, "el stock vivo queda en lo reportado")

	sp, err := f.repos.SupplyPoints.ByID(context.Background(), "sp-hsa")
	require.NoError(t, err)
	assert.NotNil(t, sp.LastReported, "reportar estampa last_reported")

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgSohConfirm, msgs[0].Key)
	assert.Contains(t, msgs[0].Text, "co 15")
}

func TestSoh_SinConsumoNoDimensionaPedido(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneHSA, "soh co 5")

	pending, err := f.repos.Requests.Pending(context.Background(), "sp-hsa")
	require.NoError(t, err)
	assert.Empty(t, pending, "sin dato de consumo no se abre solicitud")

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "nothing")
}

func TestSoh_StockSobreElMaximoNoPide(t *testing.T) {
	f := newFixture(t)
	f.setConsumption(t, "sp-hsa", "prod-co", 10, 0)

	f.dispatch(t, phoneHSA, "soh co 25")

	pending, err := f.repos.Requests.Pending(context.Background(), "sp-hsa")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSoh_ParesInvalidosRespondeAyuda(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneHSA, "soh co")
	f.dispatch(t, phoneHSA, "soh co cinco")

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, messaging.MsgSohHelp, m.Key)
	}
}

func TestSoh_ProductoDesconocido(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneHSA, "soh qq 5")

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgUnknownProduct, msgs[0].Key)
}

func TestEo_MarcaEmergencia(t *testing.T) {
	f := newFixture(t)
	f.setConsumption(t, "sp-hsa", "prod-co", 10, 0)

	f.dispatch(t, phoneHSA, "eo co 2")

	pending, err := f.repos.Requests.Pending(context.Background(), "sp-hsa")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].IsEmergency)
	assert.Equal(t, int64(18), pending[0].AmountRequested)

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgEoConfirm, msgs[0].Key)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción
// ──────────────────────────────────────────────────────────────────────────────

func TestRec_CierraPendienteYSumaStock(t *testing.T) {
	f := newFixture(t)
	f.setConsumption(t, "sp-hsa", "prod-co", 10, 0)
	f.dispatch(t, phoneHSA, "soh co 5") // abre pendiente por 15
	f.recorder.Reset()

	f.dispatch(t, phoneHSA, "rec co 15")

	pending, err := f.repos.Requests.Pending(context.Background(), "sp-hsa")
	require.NoError(t, err)
	assert.Empty(t, pending, "la recepción cierra la pendiente del producto")

	ps, err := f.repos.Stocks.Get(context.Background(), "sp-hsa", "prod-co")
	require.NoError(t, err)
	assert.Equal(t, int64(20), ps.Quantity, "5 reportadas + 15 recibidas")

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgReceiptConfirm, msgs[0].Key)
	assert.Contains(t, msgs[0].Text, "co 15")
}

func TestRec_SinPendienteSoloSumaStock(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneHSA, "rec or 8")

	ps, err := f.repos.Stocks.Get(context.Background(), "sp-hsa", "prod-or")
	require.NoError(t, err)
	assert.Equal(t, int64(8), ps.Quantity)

	msgs := f.recorder.To(phoneHSA)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgReceiptConfirm, msgs[0].Key)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eventos "not"
// ──────────────────────────────────────────────────────────────────────────────

func TestNot_DeliveryYReporte(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneInCharge, "not del")
	f.dispatch(t, phoneInCharge, "not sub")

	statuses, err := f.repos.Statuses.BySupplyPoint(context.Background(), "sp-hf")
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, entity.StatusDeliveryFacility, statuses[0].StatusType)
	assert.Equal(t, entity.StatusNotReceived, statuses[0].StatusValue)
	assert.Equal(t, entity.StatusReportFacility, statuses[1].StatusType)
	assert.Equal(t, entity.StatusNotSubmitted, statuses[1].StatusValue)

	msgs := f.recorder.To(phoneInCharge)
	require.Len(t, msgs, 2)
	assert.Equal(t, messaging.MsgNotDeliveredConfirm, msgs[0].Key)
	assert.Equal(t, messaging.MsgNotSubmittedConfirm, msgs[1].Key)
}

func TestNot_SubcomandoDesconocidoRespondeAyuda(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneInCharge, "not banana")

	msgs := f.recorder.To(phoneInCharge)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgNotHelp, msgs[0].Key)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stockout ("os")
// ──────────────────────────────────────────────────────────────────────────────

func TestOs_HSADesconocido(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneInCharge, "os 9999")

	msgs := f.recorder.To(phoneInCharge)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgUnknownHSA, msgs[0].Key)
}

func TestOs_SinPendientes(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, phoneInCharge, "os 2616")

	msgs := f.recorder.To(phoneInCharge)
	require.Len(t, msgs, 1)
	assert.Equal(t, messaging.MsgNoPendingOrders, msgs[0].Key)
	assert.Contains(t, msgs[0].Text, "Chimwemwe")
}

// Flujo completo de stockout con pendientes mixtas (una normal, una de
// emergencia): todo se cierra como stocked_out, el que responde recibe el
// mensaje "both", el HSA el de emergencia y ambos supervisores del distrito
// el aviso de stockout.
func TestOs_FlujoCompletoConEscalada(t *testing.T) {
	f := newFixture(t)
	f.setConsumption(t, "sp-hsa", "prod-co", 10, 0)
	f.setConsumption(t, "sp-hsa", "prod-or", 5, 0)
	f.dispatch(t, phoneHSA, "soh co 5") // pendiente normal co 15
	f.dispatch(t, phoneHSA, "eo or 1")  // pendiente emergencia or 9
	f.recorder.Reset()

	f.dispatch(t, phoneInCharge, "os 2616")

	// Ledger: ambas cerradas como stocked_out, el stock vivo forzado a 0.
	pending, err := f.repos.Requests.Pending(context.Background(), "sp-hsa")
	require.NoError(t, err)
	assert.Empty(t, pending)
	for _, productID := range []string{"prod-co", "prod-or"} {
		ps, err := f.repos.Stocks.Get(context.Background(), "sp-hsa", productID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), ps.Quantity)
	}

	// Mensajes: exactamente uno al que responde, uno al HSA, uno por supervisor.
	responderMsgs := f.recorder.To(phoneInCharge)
	require.Len(t, responderMsgs, 1)
	assert.Equal(t, messaging.MsgHFUnableRestockBoth, responderMsgs[0].Key)

	hsaMsgs := f.recorder.To(phoneHSA)
	require.Len(t, hsaMsgs, 1)
	assert.Equal(t, messaging.MsgHSAUnableRestockEO, hsaMsgs[0].Key)
	assert.Contains(t, hsaMsgs[0].Text, "Chimwemwe")

	for _, phone := range []string{phonePharma, phoneIMCI} {
		supMsgs := f.recorder.To(phone)
		require.Len(t, supMsgs, 1, "cada supervisor recibe exactamente un aviso")
		assert.Equal(t, messaging.MsgDistrictStockout, supMsgs[0].Key)
		assert.Contains(t, supMsgs[0].Text, "Banda")
		assert.Contains(t, supMsgs[0].Text, "Centro Nkhunga")
	}
}
