package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStock stock vivo de un producto en un punto de suministro.
// Quantity son unidades enteras reportadas por SMS; MonthlyConsumption es el
// consumo mensual estimado (fraccionario) usado para clasificar el nivel.
type ProductStock struct {
	SupplyPointID      string
	ProductID          string
	Quantity           int64
	MonthlyConsumption decimal.Decimal
	UpdatedAt          time.Time
}

// MonthsOfStock meses de cobertura al consumo actual. Devuelve false si el
// consumo es cero (cobertura indefinida).
func (ps *ProductStock) MonthsOfStock() (decimal.Decimal, bool) {
	if ps.MonthlyConsumption.IsZero() {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(ps.Quantity).Div(ps.MonthlyConsumption), true
}
