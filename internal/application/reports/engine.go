package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reabasto-api/internal/application/dto"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/hierarchy"
	"github.com/jhoicas/Reabasto-api/internal/domain/repository"
)

// Thresholds niveles de clasificación de stock en meses de consumo:
// por debajo de EmergencyMonths es stock de emergencia, por encima de
// OverstockMonths es sobrestock.
type Thresholds struct {
	EmergencyMonths decimal.Decimal
	OverstockMonths decimal.Decimal
}

// DefaultThresholds media luna de emergencia, dos meses de tope.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EmergencyMonths: decimal.NewFromFloat(0.5),
		OverstockMonths: decimal.NewFromInt(2),
	}
}

// Engine cálculos de agregación jerárquica, todos de solo lectura: pueden
// correr en paralelo entre sí y con el manejo de mensajes, tolerando cualquier
// estado consistente abierto/cerrado del ledger (read committed basta para
// reportes). Cada método con alcance vacío devuelve nil como sentinela
// explícito de "sin datos", distinto de un reporte en ceros.
type Engine struct {
	tree         *hierarchy.Tree
	supplyPoints repository.SupplyPointRepository
	contacts     repository.ContactRepository
	products     repository.ProductRepository
	stocks       repository.ProductStockRepository
	requests     repository.StockRequestRepository
	thresholds   Thresholds
}

// New construye el motor de reportes.
func New(
	tree *hierarchy.Tree,
	supplyPoints repository.SupplyPointRepository,
	contacts repository.ContactRepository,
	products repository.ProductRepository,
	stocks repository.ProductStockRepository,
	requests repository.StockRequestRepository,
	thresholds Thresholds,
) *Engine {
	return &Engine{
		tree:         tree,
		supplyPoints: supplyPoints,
		contacts:     contacts,
		products:     products,
		stocks:       stocks,
		requests:     requests,
		thresholds:   thresholds,
	}
}

// ReportingRates particiona los puntos del alcance en puntuales
// (last_reported >= since) y tardíos (anterior o nunca), cada lista ordenada
// por last_reported descendente y nombre ascendente.
func (e *Engine) ReportingRates(ctx context.Context, location *entity.LocationNode, typeFilter entity.LocationType, days int) (*dto.ReportingRateReport, error) {
	sps, err := e.scope(ctx, location, typeFilter)
	if err != nil {
		return nil, err
	}
	if len(sps) == 0 {
		return nil, nil // sin datos, sin reporte
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	var onTime, late []*entity.SupplyPoint
	for _, sp := range sps {
		if sp.LastReported != nil && !sp.LastReported.Before(since) {
			onTime = append(onTime, sp)
		} else {
			late = append(late, sp)
		}
	}
	sortReporters(onTime)
	sortReporters(late)

	rate := decimal.NewFromInt(int64(len(onTime))).
		Div(decimal.NewFromInt(int64(len(sps)))).
		Mul(decimal.NewFromInt(100)).Round(1)

	return &dto.ReportingRateReport{
		Days:       days,
		Since:      since,
		OnTime:     toReporterDTOs(onTime),
		Late:       toReporterDTOs(late),
		OnTimeRate: rate,
	}, nil
}

// StockStatusBreakdown desglose de estado de stock: una fila por hijo directo
// de la ubicación (rollup sobre su subárbol) más los totales del alcance
// completo. Los conteos por punto se memoizan durante la llamada para no
// recalcular sub-agregados al visitar el mismo nodo desde varios contextos.
// productCode y productType filtran los productos considerados.
func (e *Engine) StockStatusBreakdown(ctx context.Context, location *entity.LocationNode, productCode, productType string) (*dto.StockStatusBreakdown, error) {
	productByID, err := e.productIndex(ctx)
	if err != nil {
		return nil, err
	}
	memo := make(map[string]dto.StatusCounts)

	children, err := e.tree.Children(ctx, location)
	if err != nil {
		return nil, err
	}

	var rows []dto.StockStatusRow
	for _, child := range children {
		sps, err := e.scope(ctx, child, "")
		if err != nil {
			return nil, err
		}
		var counts dto.StatusCounts
		for _, sp := range sps {
			c, err := e.countsFor(ctx, sp, productCode, productType, productByID, memo)
			if err != nil {
				return nil, err
			}
			addCounts(&counts, c)
		}
		rows = append(rows, dto.StockStatusRow{Location: child.Name, Code: child.Code, Counts: counts})
	}

	all, err := e.scope(ctx, location, "")
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil // sin datos, sin reporte
	}
	var totals dto.StatusCounts
	for _, sp := range all {
		c, err := e.countsFor(ctx, sp, productCode, productType, productByID, memo)
		if err != nil {
			return nil, err
		}
		addCounts(&totals, c)
	}

	return &dto.StockStatusBreakdown{Rows: rows, Totals: totals}, nil
}

// OrderResponseStats por punto del alcance: total de solicitudes en ventana y
// conteo por response status; las aún abiertas cuentan como "requested".
func (e *Engine) OrderResponseStats(ctx context.Context, location *entity.LocationNode, typeFilter entity.LocationType, days int) (*dto.OrderResponseStats, error) {
	sps, err := e.scope(ctx, location, typeFilter)
	if err != nil {
		return nil, err
	}
	if len(sps) == 0 {
		return nil, nil // sin datos, sin reporte
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	reqs, err := e.requests.RequestedSince(ctx, ids(sps), since)
	if err != nil {
		return nil, err
	}
	byPoint := make(map[string][]*entity.StockRequest)
	for _, r := range reqs {
		byPoint[r.SupplyPointID] = append(byPoint[r.SupplyPointID], r)
	}

	rows := make([]dto.OrderResponseRow, 0, len(sps))
	for _, sp := range sps {
		row := dto.OrderResponseRow{
			SupplyPoint: spRef(sp),
			ByStatus:    make(map[string]int),
		}
		for _, r := range byPoint[sp.ID] {
			row.Total++
			status := string(r.ResponseStatus)
			if status == "" {
				status = "requested"
			}
			row.ByStatus[status]++
		}
		rows = append(rows, row)
	}
	return &dto.OrderResponseStats{Since: since, Rows: rows}, nil
}

// FillRates clasifica por producto las solicitudes *cerradas* en ventana.
// Una cerrada con response_status=stocked_out nunca entra al conjunto
// under/well/over, aunque amount_received sea > 0: cuenta solo en el total.
func (e *Engine) FillRates(ctx context.Context, location *entity.LocationNode, typeFilter entity.LocationType, days int) (*dto.FillRateReport, error) {
	sps, err := e.scope(ctx, location, typeFilter)
	if err != nil {
		return nil, err
	}
	if len(sps) == 0 {
		return nil, nil // sin datos, sin reporte
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	reqs, err := e.requests.RequestedSince(ctx, ids(sps), since)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*dto.FillRateRow)
	order := []string{}
	for _, r := range reqs {
		if r.Status != entity.RequestClosed {
			continue
		}
		row, ok := byProduct[r.ProductID]
		if !ok {
			p, err := e.products.ByID(ctx, r.ProductID)
			if err != nil {
				return nil, fmt.Errorf("producto %s: %w", r.ProductID, err)
			}
			row = &dto.FillRateRow{Product: dto.ProductRef{ID: p.ID, SMSCode: p.SMSCode, Name: p.Name}}
			byProduct[r.ProductID] = row
			order = append(order, r.ProductID)
		}
		row.Total++

		received := int64(0)
		if r.AmountReceived != nil {
			received = *r.AmountReceived
		}
		switch {
		case received == 0:
			row.StockedOut++
		case r.ResponseStatus == entity.ResponseStockedOut:
			// recibido > 0 pero cerrada como stockout: solo suma al total
		case received < r.AmountRequested:
			row.UnderSupplied++
		case received == r.AmountRequested:
			row.WellSupplied++
		default:
			row.OverSupplied++
		}
	}

	rows := make([]dto.FillRateRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byProduct[id])
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Product.SMSCode < rows[j].Product.SMSCode })
	return &dto.FillRateReport{Since: since, Rows: rows}, nil
}

// ProductAvailability disponibilidad por producto entre los agentes de campo
// bajo la ubicación. Los agentes se resuelven hasta 3 niveles de ascendencia
// (directo, uno arriba, dos arriba): cubre HSA → centro → distrito, que es
// todo lo que se permite seleccionar.
func (e *Engine) ProductAvailability(ctx context.Context, location *entity.LocationNode) (*dto.ProductAvailabilitySummary, error) {
	spIDs, err := e.pointsWithinTwoHops(ctx, location)
	if err != nil {
		return nil, err
	}
	agents, err := e.contacts.ActiveByRoleIn(ctx, entity.RoleHSA, spIDs)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, nil // sin datos, sin reporte
	}

	products, err := e.products.All(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ProductAvailabilityRow, 0, len(products))
	for _, p := range products {
		row := dto.ProductAvailabilityRow{
			Product: dto.ProductRef{ID: p.ID, SMSCode: p.SMSCode, Name: p.Name},
			Ratio:   decimal.Zero,
		}
		for _, agent := range agents {
			ps, err := e.stocks.Get(ctx, agent.SupplyPointID, p.ID)
			if err != nil {
				return nil, err
			}
			if ps.UpdatedAt.IsZero() {
				continue // el agente no maneja este producto
			}
			row.Managing++
			if ps.Quantity > 0 {
				row.WithStock++
			}
		}
		if row.Managing > 0 {
			row.Ratio = decimal.NewFromInt(int64(row.WithStock)).
				Div(decimal.NewFromInt(int64(row.Managing))).Round(4)
		}
		rows = append(rows, row)
	}
	return &dto.ProductAvailabilitySummary{TotalAgents: len(agents), Rows: rows}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// scope puntos de suministro de location y todos sus descendientes.
func (e *Engine) scope(ctx context.Context, location *entity.LocationNode, typeFilter entity.LocationType) ([]*entity.SupplyPoint, error) {
	nodes, err := e.tree.SelfAndDescendants(ctx, location)
	if err != nil {
		return nil, err
	}
	locIDs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		locIDs = append(locIDs, n.ID)
	}
	return e.supplyPoints.ByLocationIDs(ctx, locIDs, typeFilter)
}

// pointsWithinTwoHops ids de puntos cuyo supplied_by encadena hasta la
// ubicación en ≤2 saltos (el punto propio, sus hijos y sus nietos).
func (e *Engine) pointsWithinTwoHops(ctx context.Context, location *entity.LocationNode) ([]string, error) {
	base, err := e.supplyPoints.ByLocationIDs(ctx, []string{location.ID}, "")
	if err != nil {
		return nil, err
	}
	var out []string
	level := base
	for hop := 0; hop < 3; hop++ {
		var next []*entity.SupplyPoint
		for _, sp := range level {
			out = append(out, sp.ID)
			if hop == 2 {
				continue
			}
			children, err := e.supplyPoints.SuppliedBy(ctx, sp.ID)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		level = next
	}
	return out, nil
}

func (e *Engine) productIndex(ctx context.Context) (map[string]*entity.Product, error) {
	all, err := e.products.All(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}
	return byID, nil
}

// countsFor conteos de clasificación de un punto, memoizados por llamada.
func (e *Engine) countsFor(ctx context.Context, sp *entity.SupplyPoint, productCode, productType string, productByID map[string]*entity.Product, memo map[string]dto.StatusCounts) (dto.StatusCounts, error) {
	key := sp.ID + "|" + productCode + "|" + productType
	if c, ok := memo[key]; ok {
		return c, nil
	}
	stocks, err := e.stocks.BySupplyPoint(ctx, sp.ID)
	if err != nil {
		return dto.StatusCounts{}, err
	}
	var counts dto.StatusCounts
	for _, ps := range stocks {
		p := productByID[ps.ProductID]
		if p == nil {
			continue
		}
		if productCode != "" && p.SMSCode != productCode {
			continue
		}
		if productType != "" && p.TypeCode != productType {
			continue
		}
		switch classify(ps, e.thresholds) {
		case classStockout:
			counts.StockoutCount++
		case classEmergency:
			counts.EmergencyStockCount++
		case classAdequate:
			counts.AdequateSupplyCount++
		case classOverstocked:
			counts.OverstockedCount++
		}
	}
	memo[key] = counts
	return counts, nil
}

func addCounts(dst *dto.StatusCounts, src dto.StatusCounts) {
	dst.StockoutCount += src.StockoutCount
	dst.EmergencyStockCount += src.EmergencyStockCount
	dst.AdequateSupplyCount += src.AdequateSupplyCount
	dst.OverstockedCount += src.OverstockedCount
}

func sortReporters(sps []*entity.SupplyPoint) {
	sort.SliceStable(sps, func(i, j int) bool {
		a, b := sps[i].LastReported, sps[j].LastReported
		switch {
		case a == nil && b == nil:
			return sps[i].Name < sps[j].Name
		case a == nil:
			return false // nunca reportó ordena como el más antiguo
		case b == nil:
			return true
		case a.Equal(*b):
			return sps[i].Name < sps[j].Name
		default:
			return a.After(*b)
		}
	})
}

func toReporterDTOs(sps []*entity.SupplyPoint) []dto.ReporterDTO {
	out := make([]dto.ReporterDTO, 0, len(sps))
	for _, sp := range sps {
		out = append(out, dto.ReporterDTO{SupplyPoint: spRef(sp), LastReported: sp.LastReported})
	}
	return out
}

func spRef(sp *entity.SupplyPoint) dto.SupplyPointRef {
	return dto.SupplyPointRef{ID: sp.ID, Code: sp.Code, Name: sp.Name}
}

func ids(sps []*entity.SupplyPoint) []string {
	out := make([]string, 0, len(sps))
	for _, sp := range sps {
		out = append(out, sp.ID)
	}
	return out
}
