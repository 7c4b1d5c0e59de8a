package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Reabasto-api/internal/application/reports"
	"github.com/jhoicas/Reabasto-api/internal/application/sms"
	"github.com/jhoicas/Reabasto-api/internal/domain/hierarchy"
	"github.com/jhoicas/Reabasto-api/pkg/config"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Dispatcher *sms.Dispatcher
	Reports    *reports.Engine
	Tree       *hierarchy.Tree
	JWT        config.JWTConfig
	AccessKey  string
	ReportDays int
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público): emisión de tokens contra la clave compartida
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.JWT, deps.AccessKey)
	authGroup.Post("/token", authHandler.Token)

	// SMS entrante (público: lo llama el gateway, la identidad viene del teléfono)
	smsGroup := api.Group("/sms")
	smsHandler := NewSMSHandler(deps.Dispatcher, deps.Log)
	smsGroup.Post("/inbound", smsHandler.Inbound)

	// Reportes (protegido, requiere Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWT.Secret))

	reportsGroup := protected.Group("/reports")
	reportsHandler := NewReportsHandler(deps.Reports, deps.Tree, deps.ReportDays)
	reportsGroup.Get("/:code/reporting-rates", reportsHandler.ReportingRates)
	reportsGroup.Get("/:code/stock-status", reportsHandler.StockStatus)
	reportsGroup.Get("/:code/order-responses", reportsHandler.OrderResponses)
	reportsGroup.Get("/:code/fill-rates", reportsHandler.FillRates)
	reportsGroup.Get("/:code/product-availability", reportsHandler.ProductAvailability)
}
