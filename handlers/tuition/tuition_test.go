package tuition

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/services"
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

	require.NoError(t, db.AutoMigrate(
		&model.Major{},
		&model.Program{},
		&model.KnowledgeBlock{},
		&model.ProgramKnowledgeBlock{},
	))

	handler := NewHandler(services.NewTuitionService(db, nil))

	app := fiber.New()
	app.Get("/api/v1/tuition/:programId", handler.GetProgramTuition)
	app.Get("/api/v1/majors/with-latest-programs", handler.GetMajorsWithLatestPrograms)
	app.Get("/api/v1/majors/:id/tuition-by-years", handler.GetMajorTuitionByYears)

	return app, db
}

func decodeBody(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func TestGetProgramTuition(t *testing.T) {
	app, db := setupApp(t)

	credits := 120
	price := 1500000.0
	program := &model.Program{
		Code:           "SE-2024",
		Name:           "Software Engineering 2024",
		StartYear:      2024,
		TotalCredits:   &credits,
		PricePerCredit: &price,
	}
	require.NoError(t, db.Create(program).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tuition/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(120), data["tongSoTinChi"])
	assert.Equal(t, float64(180000000), data["tongHocPhi"])
	assert.Equal(t, float64(1500000), data["price_per_credit"])
}

func TestGetProgramTuitionWithOverride(t *testing.T) {
	app, db := setupApp(t)

	credits := 100
	program := &model.Program{
		Code:         "SE-2024",
		Name:         "Software Engineering 2024",
		StartYear:    2024,
		TotalCredits: &credits,
	}
	require.NoError(t, db.Create(program).Error)

	// No stored price, so the override carries the computation
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tuition/1?price_per_credit=2000000", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(200000000), data["tongHocPhi"])
}

func TestGetProgramTuitionMissingPrice(t *testing.T) {
	app, db := setupApp(t)

	credits := 100
	program := &model.Program{
		Code:         "SE-2024",
		Name:         "Software Engineering 2024",
		StartYear:    2024,
		TotalCredits: &credits,
	}
	require.NoError(t, db.Create(program).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tuition/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetProgramTuitionUnknownProgram(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tuition/9999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetProgramTuitionRejectsBadOverride(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tuition/1?price_per_credit=-3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetMajorsWithLatestPrograms(t *testing.T) {
	app, db := setupApp(t)

	major := &model.Major{Code: "SE", Name: "Software Engineering"}
	require.NoError(t, db.Create(major).Error)
	for _, p := range []model.Program{
		{Code: "SE-2023", Name: "SE 2023", StartYear: 2023, MajorID: &major.ID},
		{Code: "SE-2024", Name: "SE 2024", StartYear: 2024, MajorID: &major.ID},
	} {
		require.NoError(t, db.Create(&p).Error)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/majors/with-latest-programs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	entries := body["data"].([]interface{})
	require.Len(t, entries, 1)

	entry := entries[0].(map[string]interface{})
	assert.Equal(t, float64(2024), entry["latest_year"])
	assert.Len(t, entry["programs"].([]interface{}), 1)
}

func TestGetMajorTuitionByYears(t *testing.T) {
	app, db := setupApp(t)

	major := &model.Major{Code: "SE", Name: "Software Engineering"}
	require.NoError(t, db.Create(major).Error)

	credits := 120
	price := 1000000.0
	program := &model.Program{
		Code:           "SE-2024",
		Name:           "SE 2024",
		StartYear:      2024,
		MajorID:        &major.ID,
		TotalCredits:   &credits,
		PricePerCredit: &price,
	}
	require.NoError(t, db.Create(program).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/majors/1/tuition-by-years", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	data := body["data"].(map[string]interface{})
	years := data["years"].([]interface{})
	require.Len(t, years, 1)

	year := years[0].(map[string]interface{})
	assert.Equal(t, float64(2024), year["year"])
	assert.Equal(t, float64(120), year["tongSoTinChi"])
	assert.Equal(t, float64(120000000), year["tongHocPhiToiThieu"])
}
