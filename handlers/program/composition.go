package program

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/uni-admin-api/handlers"
	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/services"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
	"github.com/sahilchouksey/uni-admin-api/utils/validation"
)

// CompositionHandler exposes program composition: which courses and
// knowledge blocks make up a program
type CompositionHandler struct {
	service   *services.CompositionService
	validator *validation.Validator
}

// NewCompositionHandler creates a new composition handler
func NewCompositionHandler(service *services.CompositionService) *CompositionHandler {
	return &CompositionHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// AddCourseRequest represents the request body for attaching a course
type AddCourseRequest struct {
	CourseID         uint   `json:"course_id" validate:"required,min=1"`
	CourseType       string `json:"course_type" validate:"required"`
	Semester         *int   `json:"semester" validate:"omitempty,gte=0"`
	KnowledgeBlockID *uint  `json:"knowledge_block_id" validate:"omitempty,min=1"`
	Notes            string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateCourseRequest represents the request body for updating a program-course row.
// Absent fields are left unchanged; explicit nulls clear semester/knowledge block.
type UpdateCourseRequest struct {
	CourseType       *string `json:"course_type"`
	Semester         *int    `json:"semester" validate:"omitempty,gte=0"`
	KnowledgeBlockID *uint   `json:"knowledge_block_id" validate:"omitempty,min=1"`
	Notes            *string `json:"notes"`
}

// AddKnowledgeBlockRequest represents the request body for attaching a knowledge block
type AddKnowledgeBlockRequest struct {
	KnowledgeBlockID uint `json:"knowledge_block_id" validate:"required,min=1"`
}

func programID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}

// ListCourses handles GET /api/v1/programs/:id/courses
func (h *CompositionHandler) ListCourses(c *fiber.Ctx) error {
	id, ok := programID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program id")
	}

	rows, err := h.service.ListCourses(id)
	if err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to list program courses")
	}

	return response.Success(c, rows)
}

// AddCourse handles POST /api/v1/programs/:id/courses
func (h *CompositionHandler) AddCourse(c *fiber.Ctx) error {
	id, ok := programID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program id")
	}

	var req AddCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	row, err := h.service.AddCourse(id, services.AddCourseInput{
		CourseID:         req.CourseID,
		CourseType:       model.CourseType(req.CourseType),
		Semester:         req.Semester,
		KnowledgeBlockID: req.KnowledgeBlockID,
		Notes:            validation.SanitizeString(req.Notes),
	})
	if err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to add course to program")
	}

	return response.Created(c, row)
}

// UpdateCourse handles PUT /api/v1/programs/:id/courses/:courseId
func (h *CompositionHandler) UpdateCourse(c *fiber.Ctx) error {
	id, ok := programID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program id")
	}
	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course id")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	input := services.UpdateCourseInput{
		Semester:         req.Semester,
		KnowledgeBlockID: req.KnowledgeBlockID,
		Notes:            req.Notes,
	}
	if req.CourseType != nil {
		ct := model.CourseType(*req.CourseType)
		input.CourseType = &ct
	}
	_, input.SemesterSet = raw["semester"]
	_, input.KnowledgeBlockSet = raw["knowledge_block_id"]

	row, err := h.service.UpdateCourse(id, uint(courseID), input)
	if err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to update program course")
	}

	return response.SuccessWithMessage(c, "Program course updated successfully", row)
}

// RemoveCourse handles DELETE /api/v1/programs/:id/courses/:courseId.
// Removing a pair that does not exist returns 404.
func (h *CompositionHandler) RemoveCourse(c *fiber.Ctx) error {
	id, ok := programID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program id")
	}
	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course id")
	}

	if err := h.service.RemoveCourse(id, uint(courseID)); err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to remove course from program")
	}

	return response.SuccessWithMessage(c, "Course removed from program", nil)
}

// AddKnowledgeBlock handles POST /api/v1/programs/:id/knowledge-blocks
func (h *CompositionHandler) AddKnowledgeBlock(c *fiber.Ctx) error {
	id, ok := programID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program id")
	}

	var req AddKnowledgeBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	total, err := h.service.AddKnowledgeBlock(id, req.KnowledgeBlockID)
	if err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to attach knowledge block")
	}

	return response.SuccessWithMessage(c, "Knowledge block attached", fiber.Map{
		"program_id":         id,
		"knowledge_block_id": req.KnowledgeBlockID,
		"total_credits":      total,
	})
}

// RemoveKnowledgeBlock handles DELETE /api/v1/programs/:id/knowledge-blocks/:blockId.
// The detach is rejected with 409 while courses still reference the block.
func (h *CompositionHandler) RemoveKnowledgeBlock(c *fiber.Ctx) error {
	id, ok := programID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program id")
	}
	blockID, err := c.ParamsInt("blockId")
	if err != nil || blockID < 1 {
		return response.BadRequest(c, "Invalid knowledge block id")
	}

	total, err := h.service.RemoveKnowledgeBlock(id, uint(blockID))
	if err != nil {
		return handlers.TranslateServiceError(c, err, "Failed to detach knowledge block")
	}

	return response.SuccessWithMessage(c, "Knowledge block detached", fiber.Map{
		"program_id":    id,
		"total_credits": total,
	})
}
