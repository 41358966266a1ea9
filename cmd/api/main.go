package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-salesdash/internal/common/api"
	"go-salesdash/internal/config"
	"go-salesdash/internal/database"
	"go-salesdash/internal/features/eco4"
	"go-salesdash/internal/features/expense"
	"go-salesdash/internal/features/ledgersync"
	"go-salesdash/internal/features/metrics"
	"go-salesdash/internal/features/preference"
	"go-salesdash/internal/features/report"
	"go-salesdash/internal/features/solar"
	"go-salesdash/internal/features/system"
	"go-salesdash/internal/features/user"
	"go-salesdash/internal/logger"
	"go-salesdash/internal/middleware"
	"go-salesdash/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// NewProviderRegistry maps each business-line tag to its adapter. Selection
// at request time is always by explicit tag.
func NewProviderRegistry(solarSvc *solar.Service, eco4Svc *eco4.Service) *metrics.Registry {
	registry := metrics.NewRegistry()
	registry.Register(metrics.LineSolar, solarSvc)
	registry.Register(metrics.LineEco4, eco4Svc)
	return registry
}

// ConfigureAuth injects the JWT secret from config
func ConfigureAuth(cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)
}

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			user.NewUserRepository,
			preference.NewPreferenceRepository,
			expense.NewExpenseRepository,
			solar.NewSolarRepository,
			eco4.NewEco4Repository,

			// Services
			user.NewUserService,
			preference.NewPreferenceService,
			solar.NewService,
			eco4.NewService,
			NewProviderRegistry,
			report.NewOverviewService,
			report.NewFinancialExporter,
			report.NewReportController,
			ledgersync.NewLedgerSyncService,
			system.NewMaintenanceService,

			// Routes
			AsRoute(report.NewReportApi),
			AsRoute(system.NewSystemApi),
		),
		fx.Invoke(
			ConfigureAuth,
			RegisterAllRoutesWithAnnotation,
			system.Register,
			StartServer,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	app.Run()
}
