package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
)

// AdminAuditLog records mutating administrative actions to the audit table.
// Chain it after the auth middleware so the acting user is in the context.
func AdminAuditLog(db *gorm.DB, action string, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		user, ok := GetUser(c)
		if !ok || user == nil {
			return err
		}

		// Only log requests that reached the handler successfully. A handler
		// that returns an error may not have written a status yet, so the
		// error matters as much as the response code.
		if err != nil || c.Response().StatusCode() >= 400 {
			return err
		}

		resourceID, _ := c.ParamsInt("id")

		entry := model.AdminAuditLog{
			AdminID:    user.ID,
			Action:     action,
			Resource:   resource,
			ResourceID: uint(resourceID),
			Payload:    datatypes.JSON(c.Body()),
			IPAddress:  c.IP(),
			UserAgent:  c.Get("User-Agent"),
		}

		if dbErr := db.Create(&entry).Error; dbErr != nil {
			log.Printf("Warning: failed to write audit log for %s: %v", action, dbErr)
		}

		return err
	}
}
