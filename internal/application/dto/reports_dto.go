package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DTOs del motor de agregación. Estructuras entregadas tal cual al renderer
// externo: conservan identidad de punto de suministro, identidad de producto
// y cada conteo/razón calculada.

// SupplyPointRef identidad mínima de un punto de suministro en un reporte.
type SupplyPointRef struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ProductRef identidad mínima de un producto en un reporte.
type ProductRef struct {
	ID      string `json:"id"`
	SMSCode string `json:"sms_code"`
	Name    string `json:"name"`
}

// ReporterDTO un punto con su fecha de último reporte (nil = nunca reportó).
type ReporterDTO struct {
	SupplyPoint  SupplyPointRef `json:"supply_point"`
	LastReported *time.Time     `json:"last_reported"`
}

// ReportingRateReport partición puntual/tardío sobre una ventana trasera.
// Ambas listas vienen ordenadas por last_reported descendente y nombre
// ascendente; "nunca reportó" ordena como el más antiguo.
type ReportingRateReport struct {
	Days       int             `json:"days"`
	Since      time.Time       `json:"since"`
	OnTime     []ReporterDTO   `json:"on_time"`
	Late       []ReporterDTO   `json:"late"`
	OnTimeRate decimal.Decimal `json:"on_time_rate"` // porcentaje 0–100
}

// StatusCounts conteos de clasificación de stock de un conjunto de productos.
type StatusCounts struct {
	StockoutCount       int `json:"stockout_count"`
	EmergencyStockCount int `json:"emergency_stock_count"`
	AdequateSupplyCount int `json:"adequate_supply_count"`
	OverstockedCount    int `json:"overstocked_count"`
}

// StockStatusRow rollup de un hijo directo de la ubicación consultada.
type StockStatusRow struct {
	Location string       `json:"location"`
	Code     string       `json:"code"`
	Counts   StatusCounts `json:"counts"`
}

// StockStatusBreakdown desglose jerárquico de estado de stock.
type StockStatusBreakdown struct {
	Rows   []StockStatusRow `json:"rows"`
	Totals StatusCounts     `json:"totals"`
}

// OrderResponseRow totales de solicitudes por punto en ventana, desglosados
// por response status ("requested" agrupa las aún pendientes).
type OrderResponseRow struct {
	SupplyPoint SupplyPointRef `json:"supply_point"`
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
}

// OrderResponseStats estadísticas de respuesta a pedidos en una ventana.
type OrderResponseStats struct {
	Since time.Time          `json:"since"`
	Rows  []OrderResponseRow `json:"rows"`
}

// FillRateRow clasificación de cierres de un producto en ventana.
type FillRateRow struct {
	Product       ProductRef `json:"product"`
	Total         int        `json:"total"`
	StockedOut    int        `json:"stocked_out"`
	UnderSupplied int        `json:"under_supplied"`
	WellSupplied  int        `json:"well_supplied"`
	OverSupplied  int        `json:"over_supplied"`
}

// FillRateReport tasas de surtido sobre solicitudes cerradas en ventana.
type FillRateReport struct {
	Since time.Time     `json:"since"`
	Rows  []FillRateRow `json:"rows"`
}

// ProductAvailabilityRow disponibilidad de un producto entre los agentes del
// alcance: cuántos lo manejan, cuántos lo tienen y la razón entre ambos.
type ProductAvailabilityRow struct {
	Product   ProductRef      `json:"product"`
	Managing  int             `json:"managing"`
	WithStock int             `json:"with_stock"`
	Ratio     decimal.Decimal `json:"ratio"` // 0–1
}

// ProductAvailabilitySummary disponibilidad por producto sobre un conjunto de
// agentes de campo.
type ProductAvailabilitySummary struct {
	TotalAgents int                      `json:"total_agents"`
	Rows        []ProductAvailabilityRow `json:"rows"`
}
