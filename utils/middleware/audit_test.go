package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahilchouksey/uni-admin-api/model"
)

func setupAuditApp(t *testing.T, handler fiber.Handler) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.AdminAuditLog{}))

	admin := &model.User{Email: "admin@example.edu", PasswordHash: "x", Name: "Admin", Role: "admin"}
	require.NoError(t, db.Create(admin).Error)

	app := fiber.New()
	app.Put("/things/:id",
		func(c *fiber.Ctx) error {
			c.Locals("user", admin)
			return c.Next()
		},
		AdminAuditLog(db, "update_thing", "thing"),
		handler)

	return app, db
}

func TestAdminAuditLogRecordsSuccessfulMutation(t *testing.T) {
	app, db := setupAuditApp(t, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("PUT", "/things/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []model.AdminAuditLog
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "update_thing", entries[0].Action)
	assert.Equal(t, uint(7), entries[0].ResourceID)
}

func TestAdminAuditLogSkipsFailedStatus(t *testing.T) {
	app, db := setupAuditApp(t, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusConflict)
	})

	resp, err := app.Test(httptest.NewRequest("PUT", "/things/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.AdminAuditLog{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAdminAuditLogSkipsReturnedError(t *testing.T) {
	// A handler can fail by returning an error before any status is written;
	// that must not be recorded as a successful mutation
	app, db := setupAuditApp(t, func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "boom")
	})

	resp, err := app.Test(httptest.NewRequest("PUT", "/things/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.AdminAuditLog{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
