package course

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
	"github.com/sahilchouksey/uni-admin-api/utils/validation"
)

// CourseHandler handles course catalog requests
type CourseHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	Code         string `json:"code" validate:"required,min=2,max=50"`
	Name         string `json:"name" validate:"required,min=3,max=255"`
	Description  string `json:"description" validate:"omitempty,max=1000"`
	TotalCredits int    `json:"total_credits" validate:"gte=0,lte=30"`
}

// UpdateCourseRequest represents the request body for updating a course
type UpdateCourseRequest struct {
	Code         string `json:"code" validate:"omitempty,min=2,max=50"`
	Name         string `json:"name" validate:"omitempty,min=3,max=255"`
	Description  string `json:"description" validate:"omitempty,max=1000"`
	TotalCredits *int   `json:"total_credits" validate:"omitempty,gte=0,lte=30"`
}

// ListCourses handles GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Course{})

	if search != "" {
		query = query.Where("name LIKE ? OR code LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count courses")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var courses []model.Course
	if err := query.Order("code ASC").Limit(limit).Offset(offset).Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Paginated(c, courses, pagination)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	return response.Success(c, course)
}

// CreateCourse handles POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Code = validation.SanitizeString(req.Code)
	req.Name = validation.SanitizeString(req.Name)

	// Soft-deleted rows still hold the code under the unique index
	var existing model.Course
	if err := h.db.Unscoped().Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "Course with this code already exists")
	}

	course := model.Course{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		TotalCredits: req.TotalCredits,
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	return response.Created(c, course)
}

// UpdateCourse handles PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if req.Code != "" {
		var existing model.Course
		if err := h.db.Unscoped().Where("code = ? AND id != ?", req.Code, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Course with this code already exists")
		}
		course.Code = validation.SanitizeString(req.Code)
	}
	if req.Name != "" {
		course.Name = validation.SanitizeString(req.Name)
	}
	if req.Description != "" {
		course.Description = validation.SanitizeString(req.Description)
	}
	if req.TotalCredits != nil {
		course.TotalCredits = *req.TotalCredits
	}

	if err := h.db.Save(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to update course")
	}

	return response.SuccessWithMessage(c, "Course updated successfully", course)
}

// DeleteCourse handles DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	var usageCount int64
	if err := h.db.Model(&model.ProgramCourse{}).Where("course_id = ?", id).Count(&usageCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check course dependencies")
	}
	if usageCount > 0 {
		return response.Conflict(c, "Cannot delete course that is part of a program")
	}

	if err := h.db.Delete(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.SuccessWithMessage(c, "Course deleted successfully", nil)
}
