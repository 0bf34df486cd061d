package course

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahilchouksey/uni-admin-api/model"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Course{}, &model.ProgramCourse{}))

	handler := NewCourseHandler(db)

	app := fiber.New()
	app.Post("/api/v1/courses", handler.CreateCourse)
	app.Delete("/api/v1/courses/:id", handler.DeleteCourse)

	return app, db
}

func postCourse(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/courses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCreateCourseRejectsDuplicateCode(t *testing.T) {
	app, _ := setupApp(t)

	assert.Equal(t, fiber.StatusCreated,
		postCourse(t, app, `{"code":"CS101","name":"Intro to Programming","total_credits":3}`))
	assert.Equal(t, fiber.StatusConflict,
		postCourse(t, app, `{"code":"CS101","name":"Intro again","total_credits":3}`))
}

func TestCreateCourseAfterDeleteStillConflicts(t *testing.T) {
	app, _ := setupApp(t)

	assert.Equal(t, fiber.StatusCreated,
		postCourse(t, app, `{"code":"CS101","name":"Intro to Programming","total_credits":3}`))

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/courses/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The soft-deleted row keeps the code reserved; the response must be a
	// conflict, never a raw constraint failure
	assert.Equal(t, fiber.StatusConflict,
		postCourse(t, app, `{"code":"CS101","name":"Intro reborn","total_credits":3}`))
}
