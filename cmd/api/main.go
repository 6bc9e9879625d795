package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stoneapi/docs"
	"stoneapi/internal/config"
	"stoneapi/internal/database"
	"stoneapi/internal/database/migration"
	"stoneapi/internal/extract"
	handlers "stoneapi/internal/http/handler"
	"stoneapi/internal/http/middleware"
	"stoneapi/internal/otel"
	"stoneapi/internal/recognize"
	"stoneapi/internal/repository/postgres"
	"stoneapi/internal/service"
	"stoneapi/internal/storage"
)

// @title Steinmetz Auftragsverwaltung API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// PostgreSQL connection with pooling via database/sql
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// S3-compatible object storage for the PDF archive
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	orderRepo := postgres.NewOrderPostgres(db)
	orderSvc := service.NewOrderService(extract.NewPDF(), recognize.NewDefault(), objStore, orderRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// RequestID adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON logger for structured request logs
	app.Use(middleware.Logger())
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, orderSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
