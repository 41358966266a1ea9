package system

import (
	"context"
	"time"

	"go-salesdash/internal/database"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

type SystemApi struct {
	db *database.MongodbDB
}

func NewSystemApi(db *database.MongodbDB) *SystemApi {
	return &SystemApi{db: db}
}

// Setup registers the health route
func (h *SystemApi) Setup(app *fiber.App) {
	app.Get("/health", h.health)
}

func (h *SystemApi) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Core.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
