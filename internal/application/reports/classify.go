package reports

import "github.com/jhoicas/Reabasto-api/internal/domain/entity"

// Clasificación de nivel de stock: enumeración fija mapeada a funciones
// explícitas (stockout, stock de emergencia, suministro adecuado, sobrestock).
type stockClass int

const (
	classStockout stockClass = iota
	classEmergency
	classAdequate
	classOverstocked
)

// classify clasifica un registro de stock contra los umbrales en meses de
// consumo. Cantidad cero siempre es stockout; sin dato de consumo, cualquier
// cantidad positiva cuenta como suministro adecuado.
func classify(ps *entity.ProductStock, t Thresholds) stockClass {
	if ps.Quantity == 0 {
		return classStockout
	}
	months, ok := ps.MonthsOfStock()
	if !ok {
		return classAdequate
	}
	switch {
	case months.LessThanOrEqual(t.EmergencyMonths):
		return classEmergency
	case months.GreaterThan(t.OverstockMonths):
		return classOverstocked
	default:
		return classAdequate
	}
}
