package tuition

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/uni-admin-api/handlers"
	"github.com/sahilchouksey/uni-admin-api/services"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
)

// Handler serves tuition computation endpoints
type Handler struct {
	service *services.TuitionService
}

// NewHandler creates a new tuition handler
func NewHandler(service *services.TuitionService) *Handler {
	return &Handler{service: service}
}

// GetProgramTuition handles GET /api/v1/tuition/:programId.
// An optional price_per_credit query parameter overrides the stored price
// without persisting it.
func (h *Handler) GetProgramTuition(c *fiber.Ctx) error {
	programID, err := c.ParamsInt("programId")
	if err != nil || programID < 1 {
		return response.BadRequest(c, "Invalid program id")
	}

	var override *float64
	if raw := c.Query("price_per_credit"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price <= 0 {
			return response.BadRequest(c, "price_per_credit must be a positive number")
		}
		override = &price
	}

	result, err := h.service.ComputeForProgram(uint(programID), override)
	if err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to compute tuition")
	}

	return response.Success(c, result)
}

// GetMajorTuitionByYears handles GET /api/v1/majors/:id/tuition-by-years.
// The years query parameter bounds the lookback window; it defaults to 5.
func (h *Handler) GetMajorTuitionByYears(c *fiber.Ctx) error {
	majorID, err := c.ParamsInt("id")
	if err != nil || majorID < 1 {
		return response.BadRequest(c, "Invalid major id")
	}

	lookback := c.QueryInt("years", 0)
	if lookback < 0 {
		return response.BadRequest(c, "years must not be negative")
	}

	years, err := h.service.MajorTuitionByYear(uint(majorID), lookback)
	if err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to compute tuition by year")
	}

	return response.Success(c, fiber.Map{"years": years})
}

// GetMajorsWithLatestPrograms handles GET /api/v1/majors/with-latest-programs
func (h *Handler) GetMajorsWithLatestPrograms(c *fiber.Ctx) error {
	majors, err := h.service.MajorsWithLatestPrograms(c.Context())
	if err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to load majors")
	}

	return response.Success(c, majors)
}
