package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Reabasto-api/internal/application/dto"
	"github.com/jhoicas/Reabasto-api/internal/application/reports"
	"github.com/jhoicas/Reabasto-api/internal/domain"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
	"github.com/jhoicas/Reabasto-api/internal/domain/hierarchy"
)

// ReportsHandler expone las agregaciones jerárquicas sobre HTTP.
// Todas las rutas reciben el código de ubicación en :code y resuelven el
// alcance (la ubicación más sus descendientes) antes de delegar al motor.
type ReportsHandler struct {
	engine      *reports.Engine
	tree        *hierarchy.Tree
	defaultDays int
}

// NewReportsHandler construye el handler de reportes.
func NewReportsHandler(engine *reports.Engine, tree *hierarchy.Tree, defaultDays int) *ReportsHandler {
	return &ReportsHandler{engine: engine, tree: tree, defaultDays: defaultDays}
}

// resolveLocation resuelve :code a su nodo o responde el error HTTP.
// Devuelve nil si ya se escribió la respuesta.
func (h *ReportsHandler) resolveLocation(c *fiber.Ctx) *entity.LocationNode {
	code := c.Params("code")
	node, err := h.tree.ByCode(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LOCATION_NOT_FOUND", Message: "la ubicación no existe"})
			return nil
		}
		_ = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		return nil
	}
	return node
}

func (h *ReportsHandler) days(c *fiber.Ctx) int {
	if raw := c.Query("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return h.defaultDays
}

// respond serializa un reporte; los motores devuelven nil cuando no hay datos
// en el alcance ("sin datos, sin reporte") y eso se mapea a 204.
func respond(c *fiber.Ctx, report any, err error) error {
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if isNilReport(report) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(report)
}

func isNilReport(report any) bool {
	switch v := report.(type) {
	case *dto.ReportingRateReport:
		return v == nil
	case *dto.StockStatusBreakdown:
		return v == nil
	case *dto.OrderResponseStats:
		return v == nil
	case *dto.FillRateReport:
		return v == nil
	case *dto.ProductAvailabilitySummary:
		return v == nil
	}
	return report == nil
}

// ReportingRates tasas de reporte a tiempo / tarde dentro de la ventana.
func (h *ReportsHandler) ReportingRates(c *fiber.Ctx) error {
	node := h.resolveLocation(c)
	if node == nil {
		return nil
	}
	report, err := h.engine.ReportingRates(c.UserContext(), node, entity.LocationType(c.Query("type")), h.days(c))
	return respond(c, report, err)
}

// StockStatus desglose de niveles de stock por hijo directo de la ubicación.
func (h *ReportsHandler) StockStatus(c *fiber.Ctx) error {
	node := h.resolveLocation(c)
	if node == nil {
		return nil
	}
	report, err := h.engine.StockStatusBreakdown(c.UserContext(), node, c.Query("product"), c.Query("product_type"))
	return respond(c, report, err)
}

// OrderResponses conteo de solicitudes por estado de respuesta.
func (h *ReportsHandler) OrderResponses(c *fiber.Ctx) error {
	node := h.resolveLocation(c)
	if node == nil {
		return nil
	}
	report, err := h.engine.OrderResponseStats(c.UserContext(), node, entity.LocationType(c.Query("type")), h.days(c))
	return respond(c, report, err)
}

// FillRates distribución de cierres por producto.
func (h *ReportsHandler) FillRates(c *fiber.Ctx) error {
	node := h.resolveLocation(c)
	if node == nil {
		return nil
	}
	report, err := h.engine.FillRates(c.UserContext(), node, entity.LocationType(c.Query("type")), h.days(c))
	return respond(c, report, err)
}

// ProductAvailability proporción de agentes con stock por producto.
func (h *ReportsHandler) ProductAvailability(c *fiber.Ctx) error {
	node := h.resolveLocation(c)
	if node == nil {
		return nil
	}
	report, err := h.engine.ProductAvailability(c.UserContext(), node)
	return respond(c, report, err)
}
