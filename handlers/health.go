package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/uni-admin-api/database"
)

// HandleCheckHealth reports process and database health. Always returns 200
// while the process is up; the database field carries the connection state.
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if err := store.HealthCheck(); err != nil {
			dbStatus = "disconnected"
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":   true,
			"message":   "Service is running",
			"timestamp": time.Now().Format(time.RFC3339),
			"database":  dbStatus,
		})
	}
}
