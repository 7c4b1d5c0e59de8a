package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ClassifyResponse es el corazón del cierre de solicitudes: la clasificación
// define qué mensajes de escalada salen y cómo cuentan los reportes de fill
// rate. Los cuatro resultados se fijan aquí contra cantidades conocidas.
// ──────────────────────────────────────────────────────────────────────────────

func TestClassifyResponse_CeroEsStockout(t *testing.T) {
	assert.Equal(t, entity.ResponseStockedOut, entity.ClassifyResponse(10, 0),
		"recibir 0 siempre clasifica como stocked_out")
}

func TestClassifyResponse_MenosEsUnderSupplied(t *testing.T) {
	assert.Equal(t, entity.ResponseUnderSupplied, entity.ClassifyResponse(10, 4))
	assert.Equal(t, entity.ResponseUnderSupplied, entity.ClassifyResponse(10, 9))
}

func TestClassifyResponse_ExactoEsWellSupplied(t *testing.T) {
	assert.Equal(t, entity.ResponseWellSupplied, entity.ClassifyResponse(10, 10))
}

func TestClassifyResponse_MasEsOverSupplied(t *testing.T) {
	assert.Equal(t, entity.ResponseOverSupplied, entity.ClassifyResponse(10, 11))
	assert.Equal(t, entity.ResponseOverSupplied, entity.ClassifyResponse(1, 100))
}

// TestIsPending_SoloDependeDelStatus verifica que pendiente == abierta,
// sin importar el response status que tenga la fila.
func TestIsPending_SoloDependeDelStatus(t *testing.T) {
	open := &entity.StockRequest{Status: entity.RequestOpen}
	closed := &entity.StockRequest{Status: entity.RequestClosed, ResponseStatus: entity.ResponseWellSupplied}

	assert.True(t, open.IsPending())
	assert.False(t, closed.IsPending())
}
