package program

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/handlers"
	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/services"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
	"github.com/sahilchouksey/uni-admin-api/utils/validation"
)

// ProgramHandler handles program CRUD and pricing requests
type ProgramHandler struct {
	db        *gorm.DB
	tuition   *services.TuitionService
	validator *validation.Validator
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(db *gorm.DB, tuition *services.TuitionService) *ProgramHandler {
	return &ProgramHandler{
		db:        db,
		tuition:   tuition,
		validator: validation.NewValidator(),
	}
}

// CreateProgramRequest represents the request body for creating a program
type CreateProgramRequest struct {
	Code           string     `json:"code" validate:"required,min=2,max=50"`
	Name           string     `json:"name" validate:"required,min=3,max=255"`
	Description    string     `json:"description" validate:"omitempty,max=2000"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	StartYear      int        `json:"start_year" validate:"required,gte=1990,lte=2100"`
	MajorID        *uint      `json:"major_id" validate:"omitempty,min=1"`
	PricePerCredit *float64   `json:"price_per_credit" validate:"omitempty,gt=0"`
}

// UpdateProgramRequest represents the request body for updating a program
type UpdateProgramRequest struct {
	Code           string     `json:"code" validate:"omitempty,min=2,max=50"`
	Name           string     `json:"name" validate:"omitempty,min=3,max=255"`
	Description    string     `json:"description" validate:"omitempty,max=2000"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	StartYear      *int       `json:"start_year" validate:"omitempty,gte=1990,lte=2100"`
	MajorID        *uint      `json:"major_id" validate:"omitempty,min=1"`
	PricePerCredit *float64   `json:"price_per_credit" validate:"omitempty,gt=0"`
	IsActive       *bool      `json:"is_active"`
}

// SavePriceRequest represents the request body for PUT /programs/:id/price
type SavePriceRequest struct {
	PricePerCredit float64 `json:"price_per_credit" validate:"required,gt=0"`
}

// ListPrograms handles GET /api/v1/programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	majorID := c.Query("major_id", "")
	startYear := c.Query("start_year", "")

	query := h.db.Model(&model.Program{})

	if search != "" {
		query = query.Where("name LIKE ? OR code LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if majorID != "" {
		query = query.Where("major_id = ?", majorID)
	}
	if startYear != "" {
		query = query.Where("start_year = ?", startYear)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count programs")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var programs []model.Program
	if err := query.Preload("Major").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&programs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch programs")
	}

	return response.Paginated(c, programs, pagination)
}

// GetProgram handles GET /api/v1/programs/:id
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	id := c.Params("id")

	var program model.Program
	if err := h.db.Preload("Major").
		Preload("KnowledgeBlocks").
		Preload("ProgramCourses.Course").
		Preload("ProgramCourses.KnowledgeBlock").
		First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Program not found")
		}
		return response.InternalServerError(c, "Failed to fetch program")
	}

	return response.Success(c, program)
}

// CreateProgram handles POST /api/v1/programs
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var req CreateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Code = validation.SanitizeString(req.Code)
	req.Name = validation.SanitizeString(req.Name)

	if req.MajorID != nil {
		var major model.Major
		if err := h.db.First(&major, *req.MajorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Major not found")
			}
			return response.InternalServerError(c, "Failed to verify major")
		}
	}

	// Soft-deleted rows still hold the code under the unique index
	var existing model.Program
	if err := h.db.Unscoped().Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "Program with this code already exists")
	}

	zero := 0
	program := model.Program{
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		StartYear:      req.StartYear,
		IsActive:       true,
		MajorID:        req.MajorID,
		TotalCredits:   &zero, // no knowledge blocks attached yet
		PricePerCredit: req.PricePerCredit,
	}

	if err := h.db.Create(&program).Error; err != nil {
		return response.InternalServerError(c, "Failed to create program")
	}

	h.db.Preload("Major").First(&program, program.ID)

	return response.Created(c, program)
}

// UpdateProgram handles PUT /api/v1/programs/:id
func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var program model.Program
	if err := h.db.First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Program not found")
		}
		return response.InternalServerError(c, "Failed to fetch program")
	}

	if req.Code != "" {
		var existing model.Program
		if err := h.db.Unscoped().Where("code = ? AND id != ?", req.Code, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Program with this code already exists")
		}
		program.Code = validation.SanitizeString(req.Code)
	}
	if req.Name != "" {
		program.Name = validation.SanitizeString(req.Name)
	}
	if req.Description != "" {
		program.Description = validation.SanitizeString(req.Description)
	}
	if req.StartDate != nil {
		program.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		program.EndDate = req.EndDate
	}
	if req.StartYear != nil {
		program.StartYear = *req.StartYear
	}
	if req.MajorID != nil {
		var major model.Major
		if err := h.db.First(&major, *req.MajorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Major not found")
			}
			return response.InternalServerError(c, "Failed to verify major")
		}
		program.MajorID = req.MajorID
	}
	if req.PricePerCredit != nil {
		program.PricePerCredit = req.PricePerCredit
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	// total_credits is a derived projection and is never written here

	if err := h.db.Save(&program).Error; err != nil {
		return response.InternalServerError(c, "Failed to update program")
	}

	h.db.Preload("Major").First(&program, program.ID)

	return response.SuccessWithMessage(c, "Program updated successfully", program)
}

// DeleteProgram handles DELETE /api/v1/programs/:id.
// Deleting a program cascades to its course and knowledge-block join rows.
func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	id := c.Params("id")

	var program model.Program
	if err := h.db.First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Program not found")
		}
		return response.InternalServerError(c, "Failed to fetch program")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ?", program.ID).Delete(&model.ProgramCourse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", program.ID).Delete(&model.ProgramKnowledgeBlock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&program).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete program")
	}

	return response.SuccessWithMessage(c, "Program deleted successfully", nil)
}

// SavePrice handles PUT /api/v1/programs/:id/price
func (h *ProgramHandler) SavePrice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid program id")
	}

	var req SavePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	program, err := h.tuition.SavePrice(uint(id), req.PricePerCredit)
	if err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to save price")
	}

	return response.SuccessWithMessage(c, "Price saved successfully", program)
}
