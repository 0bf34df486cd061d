package faculty

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
	"github.com/sahilchouksey/uni-admin-api/utils/validation"
)

// FacultyHandler handles faculty-related requests
type FacultyHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewFacultyHandler creates a new faculty handler
func NewFacultyHandler(db *gorm.DB) *FacultyHandler {
	return &FacultyHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateFacultyRequest represents the request body for creating a faculty
type CreateFacultyRequest struct {
	Code        string `json:"code" validate:"required,min=2,max=50"`
	Name        string `json:"name" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateFacultyRequest represents the request body for updating a faculty
type UpdateFacultyRequest struct {
	Code        string `json:"code" validate:"omitempty,min=2,max=50"`
	Name        string `json:"name" validate:"omitempty,min=3,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool  `json:"is_active"`
}

// ListFaculties handles GET /api/v1/faculties
func (h *FacultyHandler) ListFaculties(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Faculty{})

	if search != "" {
		query = query.Where("name LIKE ? OR code LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count faculties")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var faculties []model.Faculty
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&faculties).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch faculties")
	}

	return response.Paginated(c, faculties, pagination)
}

// GetFaculty handles GET /api/v1/faculties/:id
func (h *FacultyHandler) GetFaculty(c *fiber.Ctx) error {
	id := c.Params("id")

	var faculty model.Faculty
	if err := h.db.Preload("Majors").First(&faculty, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Faculty not found")
		}
		return response.InternalServerError(c, "Failed to fetch faculty")
	}

	return response.Success(c, faculty)
}

// CreateFaculty handles POST /api/v1/faculties
func (h *FacultyHandler) CreateFaculty(c *fiber.Ctx) error {
	var req CreateFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Code = validation.SanitizeString(req.Code)
	req.Name = validation.SanitizeString(req.Name)

	// Soft-deleted rows still hold the code under the unique index
	var existing model.Faculty
	if err := h.db.Unscoped().Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "Faculty with this code already exists")
	}

	faculty := model.Faculty{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	if err := h.db.Create(&faculty).Error; err != nil {
		return response.InternalServerError(c, "Failed to create faculty")
	}

	return response.Created(c, faculty)
}

// UpdateFaculty handles PUT /api/v1/faculties/:id
func (h *FacultyHandler) UpdateFaculty(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var faculty model.Faculty
	if err := h.db.First(&faculty, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Faculty not found")
		}
		return response.InternalServerError(c, "Failed to fetch faculty")
	}

	if req.Code != "" {
		var existing model.Faculty
		if err := h.db.Unscoped().Where("code = ? AND id != ?", req.Code, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Faculty with this code already exists")
		}
		faculty.Code = validation.SanitizeString(req.Code)
	}
	if req.Name != "" {
		faculty.Name = validation.SanitizeString(req.Name)
	}
	if req.Description != "" {
		faculty.Description = validation.SanitizeString(req.Description)
	}
	if req.IsActive != nil {
		faculty.IsActive = *req.IsActive
	}

	if err := h.db.Save(&faculty).Error; err != nil {
		return response.InternalServerError(c, "Failed to update faculty")
	}

	return response.SuccessWithMessage(c, "Faculty updated successfully", faculty)
}

// DeleteFaculty handles DELETE /api/v1/faculties/:id
func (h *FacultyHandler) DeleteFaculty(c *fiber.Ctx) error {
	id := c.Params("id")

	var faculty model.Faculty
	if err := h.db.First(&faculty, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Faculty not found")
		}
		return response.InternalServerError(c, "Failed to fetch faculty")
	}

	var majorCount int64
	if err := h.db.Model(&model.Major{}).Where("faculty_id = ?", id).Count(&majorCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check faculty dependencies")
	}
	if majorCount > 0 {
		return response.Conflict(c, "Cannot delete faculty with existing majors")
	}

	// Soft delete
	if err := h.db.Delete(&faculty).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete faculty")
	}

	return response.SuccessWithMessage(c, "Faculty deleted successfully", nil)
}
