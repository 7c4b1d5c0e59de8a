package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reabasto-api/internal/application/escalation"
	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/application/reports"
	"github.com/jhoicas/Reabasto-api/internal/application/sms"
	"github.com/jhoicas/Reabasto-api/internal/domain/hierarchy"
	"github.com/jhoicas/Reabasto-api/internal/infrastructure/gateway"
	"github.com/jhoicas/Reabasto-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Reabasto-api/internal/interfaces/http"
	"github.com/jhoicas/Reabasto-api/pkg/config"
	"github.com/jhoicas/Reabasto-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	locationRepo := postgres.NewLocationRepository(pool)
	supplyPointRepo := postgres.NewSupplyPointRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewProductStockRepository(pool)
	requestRepo := postgres.NewStockRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	tree := hierarchy.New(locationRepo)

	// Gateway saliente: "log" registra los mensajes, "http" los entrega a un
	// gateway SMS externo.
	var smsGateway messaging.Gateway
	switch cfg.SMS.GatewayKind {
	case "http":
		smsGateway = gateway.NewHTTPGateway(cfg.SMS.GatewayURL, cfg.SMS.GatewayAPIKey, log)
	default:
		smsGateway = gateway.NewLogGateway(log)
	}
	log.Info().Str("gateway", cfg.SMS.GatewayKind).Msg("gateway SMS saliente")

	stockCfg := sms.StockConfig{MaxMonths: mustDecimal(log, "SMS_MAX_MONTHS", cfg.SMS.MaxMonths)}
	escalationCfg := escalation.Config{SupervisorRoles: cfg.SMS.Roles()}

	dispatcher, err := sms.NewDispatcher(txRunner, smsGateway, log,
		sms.NewRegisterHandler(),
		sms.NewStockOnHandHandler(stockCfg),
		sms.NewEmergencyOrderHandler(stockCfg),
		sms.NewReceiptHandler(),
		sms.NewStockoutHandler(escalationCfg, log),
		sms.NewNotReceivedHandler(),
		sms.NewHelpHandler(),
	)
	if err != nil {
		// Tabla de keywords inválida: error de configuración, no se arranca.
		log.Fatal().Err(err).Msg("construcción del dispatcher")
	}

	reportsEngine := reports.New(
		tree, supplyPointRepo, contactRepo, productRepo, stockRepo, requestRepo,
		reports.Thresholds{
			EmergencyMonths: mustDecimal(log, "SMS_EMERGENCY_MONTHS", cfg.SMS.EmergencyMonths),
			OverstockMonths: mustDecimal(log, "SMS_OVERSTOCK_MONTHS", cfg.SMS.OverstockMonths),
		},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Dispatcher: dispatcher,
		Reports:    reportsEngine,
		Tree:       tree,
		JWT:        cfg.JWT,
		AccessKey:  cfg.SMS.AccessKey,
		ReportDays: cfg.SMS.ReportDays,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func mustDecimal(log *logger.Logger, name, raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Fatal().Err(err).Str("var", name).Str("valor", raw).Msg("valor decimal inválido")
	}
	return d
}
