package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"stoneapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. All
// order endpoints live under the /api prefix.
func RegisterRoutes(app *fiber.App, db *sql.DB, orderSvc service.OrderService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/", Root())
	api.Post("/upload-pdf", UploadOrder(orderSvc))
	api.Post("/search-orders", SearchOrders(orderSvc))
	api.Get("/orders", ListOrders(orderSvc))
	api.Get("/order/:id", GetOrder(orderSvc))
	api.Delete("/order/:id", DeleteOrder(orderSvc))
}

// HealthCheck reports readiness based on database connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness check with no dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
