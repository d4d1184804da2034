package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/leadmine-api/internal/application/auth"
	"github.com/jhoicas/leadmine-api/internal/application/crm"
	"github.com/jhoicas/leadmine-api/internal/application/integration"
	"github.com/jhoicas/leadmine-api/internal/application/legacy"
	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/cache"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/leadmine-api/internal/infrastructure/pdf"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/postgres"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/leadmine-api/internal/interfaces/http"
	"github.com/jhoicas/leadmine-api/pkg/config"
	"github.com/jhoicas/leadmine-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	businessRepo := postgres.NewBusinessRepository(pool)
	editableRepo := postgres.NewEditableDataRepository(pool)
	leadRepo := postgres.NewLeadInfoRepository(pool)
	noteRepo := postgres.NewNoteRepository(pool)
	inviteRepo := postgres.NewCampaignInviteRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de estadísticas: Redis si está configurado, si no una caché vacía.
	var statsCache ports.Cache = cache.Nop{}
	if cfg.Redis.Enabled() {
		rc := cache.NewRedisCache(cache.NewRedisClient(cfg.Redis), cfg.App.Name+":")
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible; estadísticas sin caché")
		} else {
			statsCache = rc
		}
	}

	keys := auth.IntegrationKeys{Plain: cfg.Integration.APIKey, Hash: cfg.Integration.APIKeyHash}
	authUC := auth.NewAuthUseCase(cfg.JWT.Secret, keys)
	if !keys.Configured() {
		log.Warn().Msg("INTEGRATION_API_KEY no configurada; /api/integration responderá 500")
	}

	legacyUC := legacy.NewUseCase(legacy.Deps{
		Businesses: businessRepo,
		Tx:         txRunner,
		Cache:      statsCache,
		Exporter:   xlsx.NewExporter(),
		Sheets:     infrapdf.NewLeadSheetRenderer(cfg.App.Name),
		Limits: leads.QueryLimits{
			DefaultPerPage: cfg.Legacy.DefaultPerPage,
			MaxPerPage:     cfg.Legacy.MaxPerPage,
		},
		StatsTTL: cfg.Redis.StatsTTL,
		Log:      log,
	})
	crmUC := crm.NewUseCase(businessRepo, editableRepo, leadRepo, noteRepo, txRunner)
	integrationUC := integration.NewUseCase(businessRepo, inviteRepo, txRunner, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(httpRouter.SecurityHeaders())
	if cfg.Metrics.Enabled {
		app.Use(httpRouter.Metrics())
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(metrics.Handler()))
	}

	// Swagger UI en local: http://localhost:<port>/docs (requiere `swag init`).
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "LeadMine API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		LegacyUC:      legacyUC,
		CRMUC:         crmUC,
		IntegrationUC: integrationUC,
		CookieName:    cfg.JWT.CookieName,
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
