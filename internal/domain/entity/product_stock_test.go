package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

func TestMonthsOfStock_ConConsumo(t *testing.T) {
	ps := &entity.ProductStock{
		Quantity:           30,
		MonthlyConsumption: decimal.NewFromInt(10),
	}
	months, ok := ps.MonthsOfStock()
	assert.True(t, ok)
	assert.True(t, months.Equal(decimal.NewFromInt(3)), "30 unidades a 10/mes son 3 meses")
}

func TestMonthsOfStock_ConsumoFraccionario(t *testing.T) {
	ps := &entity.ProductStock{
		Quantity:           5,
		MonthlyConsumption: decimal.NewFromFloat(2.5),
	}
	months, ok := ps.MonthsOfStock()
	assert.True(t, ok)
	assert.True(t, months.Equal(decimal.NewFromInt(2)))
}

// Sin consumo estimado la cobertura es indefinida: ok en false, no división
// por cero ni valores infinitos.
func TestMonthsOfStock_SinConsumoEsIndefinido(t *testing.T) {
	ps := &entity.ProductStock{Quantity: 100}
	_, ok := ps.MonthsOfStock()
	assert.False(t, ok)
}
