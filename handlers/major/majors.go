package major

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
	"github.com/sahilchouksey/uni-admin-api/utils/validation"
)

// MajorHandler handles major-related requests
type MajorHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewMajorHandler creates a new major handler
func NewMajorHandler(db *gorm.DB) *MajorHandler {
	return &MajorHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateMajorRequest represents the request body for creating a major
type CreateMajorRequest struct {
	Code      string `json:"code" validate:"required,min=2,max=50"`
	Name      string `json:"name" validate:"required,min=3,max=255"`
	FacultyID *uint  `json:"faculty_id" validate:"omitempty,min=1"`
}

// UpdateMajorRequest represents the request body for updating a major
type UpdateMajorRequest struct {
	Code      string `json:"code" validate:"omitempty,min=2,max=50"`
	Name      string `json:"name" validate:"omitempty,min=3,max=255"`
	FacultyID *uint  `json:"faculty_id" validate:"omitempty,min=1"`
}

// ListMajors handles GET /api/v1/majors
func (h *MajorHandler) ListMajors(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	facultyID := c.Query("faculty_id", "")

	query := h.db.Model(&model.Major{})

	if search != "" {
		query = query.Where("name LIKE ? OR code LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if facultyID != "" {
		query = query.Where("faculty_id = ?", facultyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count majors")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var majors []model.Major
	if err := query.Preload("Faculty").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&majors).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch majors")
	}

	return response.Paginated(c, majors, pagination)
}

// GetMajor handles GET /api/v1/majors/:id
func (h *MajorHandler) GetMajor(c *fiber.Ctx) error {
	id := c.Params("id")

	var major model.Major
	if err := h.db.Preload("Faculty").Preload("Programs").First(&major, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Major not found")
		}
		return response.InternalServerError(c, "Failed to fetch major")
	}

	return response.Success(c, major)
}

// CreateMajor handles POST /api/v1/majors
func (h *MajorHandler) CreateMajor(c *fiber.Ctx) error {
	var req CreateMajorRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Code = validation.SanitizeString(req.Code)
	req.Name = validation.SanitizeString(req.Name)

	if req.FacultyID != nil {
		var faculty model.Faculty
		if err := h.db.First(&faculty, *req.FacultyID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Faculty not found")
			}
			return response.InternalServerError(c, "Failed to verify faculty")
		}
	}

	// Soft-deleted rows still hold the code under the unique index
	var existing model.Major
	if err := h.db.Unscoped().Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "Major with this code already exists")
	}

	major := model.Major{
		Code:      req.Code,
		Name:      req.Name,
		FacultyID: req.FacultyID,
	}

	if err := h.db.Create(&major).Error; err != nil {
		return response.InternalServerError(c, "Failed to create major")
	}

	h.db.Preload("Faculty").First(&major, major.ID)

	return response.Created(c, major)
}

// UpdateMajor handles PUT /api/v1/majors/:id
func (h *MajorHandler) UpdateMajor(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateMajorRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var major model.Major
	if err := h.db.First(&major, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Major not found")
		}
		return response.InternalServerError(c, "Failed to fetch major")
	}

	if req.Code != "" {
		var existing model.Major
		if err := h.db.Unscoped().Where("code = ? AND id != ?", req.Code, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Major with this code already exists")
		}
		major.Code = validation.SanitizeString(req.Code)
	}
	if req.Name != "" {
		major.Name = validation.SanitizeString(req.Name)
	}
	if req.FacultyID != nil {
		var faculty model.Faculty
		if err := h.db.First(&faculty, *req.FacultyID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Faculty not found")
			}
			return response.InternalServerError(c, "Failed to verify faculty")
		}
		major.FacultyID = req.FacultyID
	}

	if err := h.db.Save(&major).Error; err != nil {
		return response.InternalServerError(c, "Failed to update major")
	}

	h.db.Preload("Faculty").First(&major, major.ID)

	return response.SuccessWithMessage(c, "Major updated successfully", major)
}

// DeleteMajor handles DELETE /api/v1/majors/:id
func (h *MajorHandler) DeleteMajor(c *fiber.Ctx) error {
	id := c.Params("id")

	var major model.Major
	if err := h.db.First(&major, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Major not found")
		}
		return response.InternalServerError(c, "Failed to fetch major")
	}

	var programCount int64
	if err := h.db.Model(&model.Program{}).Where("major_id = ?", id).Count(&programCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check major dependencies")
	}
	if programCount > 0 {
		return response.Conflict(c, "Cannot delete major with existing programs")
	}

	if err := h.db.Delete(&major).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete major")
	}

	return response.SuccessWithMessage(c, "Major deleted successfully", nil)
}
