package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/billing"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/bootstrap"
	infrapdf "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/pdf"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/storage"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/telemetry"
	httpRouter "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/interfaces/http"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/seed"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/config"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := log.WithContext(context.Background())

	tel, err := telemetry.New(ctx, cfg.Otel, cfg.App)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar telemetría")
	}

	repos, err := bootstrap.OpenRepositories(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("persistencia")
	}
	defer repos.Close()

	// Archivo de PDFs en S3 solo si hay bucket configurado
	var docStore billing.DocumentStore
	if cfg.Storage.Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		docStore = s3Store
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("archivo de facturas en S3 activo")
	}

	ucs := bootstrap.NewUseCases(cfg, repos, bootstrap.PDFDeps{
		Generator: infrapdf.NewMarotoPDFGenerator(),
		Store:     docStore,
	})

	if cfg.App.SeedDemo && cfg.DB.Driver == config.DriverMemory {
		res, err := seed.Run(ctx, ucs.SeedUseCases(), seed.Options{
			CompanyName: "Grow Tenders Demo",
			Domain:      "demo.growtenders.in",
			Password:    "demo12345",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("seed demo")
		}
		log.Info().Str("company_id", res.CompanyID).Msg("datos demo cargados (password demo12345)")
	}

	rateLimiter, err := httpRouter.NewLimiter(cfg.RateLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("rate limiter")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    2 * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Grow Tenders CRM API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        ucs.Auth,
		CompanyUC:     ucs.Company,
		UserUC:        ucs.Users,
		LeadUC:        ucs.Leads,
		ActivityUC:    ucs.Activities,
		CustomerUC:    ucs.Customers,
		DealUC:        ucs.Deals,
		PaymentUC:     ucs.Payments,
		InvoiceUC:     ucs.Invoices,
		InvoicePDF:    ucs.InvoicePDF,
		LeaderboardUC: ucs.Leaderboard,
		ReportsUC:     ucs.Reports,
		Users:         repos.Users,
		Limiter:       rateLimiter,
		JWTSecret:     cfg.JWT.Secret,
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
	if err := tel.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("apagado de telemetría")
	}

	log.Info().Msg("aplicación detenida")
}
