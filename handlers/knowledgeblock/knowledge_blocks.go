package knowledgeblock

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/services"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
	"github.com/sahilchouksey/uni-admin-api/utils/validation"
)

// KnowledgeBlockHandler handles knowledge block requests
type KnowledgeBlockHandler struct {
	db         *gorm.DB
	aggregator *services.CreditAggregator
	validator  *validation.Validator
}

// NewKnowledgeBlockHandler creates a new knowledge block handler
func NewKnowledgeBlockHandler(db *gorm.DB, aggregator *services.CreditAggregator) *KnowledgeBlockHandler {
	return &KnowledgeBlockHandler{
		db:         db,
		aggregator: aggregator,
		validator:  validation.NewValidator(),
	}
}

// CreateKnowledgeBlockRequest represents the request body for creating a knowledge block
type CreateKnowledgeBlockRequest struct {
	Code         string `json:"code" validate:"required,min=2,max=50"`
	Name         string `json:"name" validate:"required,min=3,max=255"`
	Description  string `json:"description" validate:"omitempty,max=1000"`
	MinCredits   *int   `json:"min_credits" validate:"omitempty,gte=0"`
	MaxCredits   *int   `json:"max_credits" validate:"omitempty,gte=0"`
	TotalCredits *int   `json:"total_credits" validate:"omitempty,gte=0"`
	IsRequired   bool   `json:"is_required"`
}

// UpdateKnowledgeBlockRequest represents the request body for updating a knowledge block
type UpdateKnowledgeBlockRequest struct {
	Code         string `json:"code" validate:"omitempty,min=2,max=50"`
	Name         string `json:"name" validate:"omitempty,min=3,max=255"`
	Description  string `json:"description" validate:"omitempty,max=1000"`
	MinCredits   *int   `json:"min_credits" validate:"omitempty,gte=0"`
	MaxCredits   *int   `json:"max_credits" validate:"omitempty,gte=0"`
	TotalCredits *int   `json:"total_credits" validate:"omitempty,gte=0"`
	IsRequired   *bool  `json:"is_required"`
	IsActive     *bool  `json:"is_active"`
}

// creditRangeValid checks min_credits <= max_credits when both are set.
// This is an input-time rule only, not a schema constraint.
func creditRangeValid(min, max *int) bool {
	if min == nil || max == nil {
		return true
	}
	return *min <= *max
}

// ListKnowledgeBlocks handles GET /api/v1/knowledge-blocks
func (h *KnowledgeBlockHandler) ListKnowledgeBlocks(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	query := h.db.Model(&model.KnowledgeBlock{})

	if search != "" {
		query = query.Where("name LIKE ? OR code LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count knowledge blocks")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var blocks []model.KnowledgeBlock
	if err := query.Order("code ASC").Limit(limit).Offset(offset).Find(&blocks).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch knowledge blocks")
	}

	return response.Paginated(c, blocks, pagination)
}

// GetKnowledgeBlock handles GET /api/v1/knowledge-blocks/:id
func (h *KnowledgeBlockHandler) GetKnowledgeBlock(c *fiber.Ctx) error {
	id := c.Params("id")

	var block model.KnowledgeBlock
	if err := h.db.First(&block, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Knowledge block not found")
		}
		return response.InternalServerError(c, "Failed to fetch knowledge block")
	}

	return response.Success(c, block)
}

// CreateKnowledgeBlock handles POST /api/v1/knowledge-blocks
func (h *KnowledgeBlockHandler) CreateKnowledgeBlock(c *fiber.Ctx) error {
	var req CreateKnowledgeBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if !creditRangeValid(req.MinCredits, req.MaxCredits) {
		return response.BadRequest(c, "min_credits must not exceed max_credits")
	}

	req.Code = validation.SanitizeString(req.Code)
	req.Name = validation.SanitizeString(req.Name)

	// Soft-deleted rows still hold the code under the unique index
	var existing model.KnowledgeBlock
	if err := h.db.Unscoped().Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "Knowledge block with this code already exists")
	}

	block := model.KnowledgeBlock{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		MinCredits:   req.MinCredits,
		MaxCredits:   req.MaxCredits,
		TotalCredits: req.TotalCredits,
		IsRequired:   req.IsRequired,
		IsActive:     true,
	}

	if err := h.db.Create(&block).Error; err != nil {
		return response.InternalServerError(c, "Failed to create knowledge block")
	}

	return response.Created(c, block)
}

// UpdateKnowledgeBlock handles PUT /api/v1/knowledge-blocks/:id
func (h *KnowledgeBlockHandler) UpdateKnowledgeBlock(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateKnowledgeBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var block model.KnowledgeBlock
	if err := h.db.First(&block, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Knowledge block not found")
		}
		return response.InternalServerError(c, "Failed to fetch knowledge block")
	}

	// Validate the credit range against the merged state
	min := block.MinCredits
	max := block.MaxCredits
	if req.MinCredits != nil {
		min = req.MinCredits
	}
	if req.MaxCredits != nil {
		max = req.MaxCredits
	}
	if !creditRangeValid(min, max) {
		return response.BadRequest(c, "min_credits must not exceed max_credits")
	}

	if req.Code != "" {
		var existing model.KnowledgeBlock
		if err := h.db.Unscoped().Where("code = ? AND id != ?", req.Code, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Knowledge block with this code already exists")
		}
		block.Code = validation.SanitizeString(req.Code)
	}
	if req.Name != "" {
		block.Name = validation.SanitizeString(req.Name)
	}
	if req.Description != "" {
		block.Description = validation.SanitizeString(req.Description)
	}
	if req.MinCredits != nil {
		block.MinCredits = req.MinCredits
	}
	if req.MaxCredits != nil {
		block.MaxCredits = req.MaxCredits
	}
	if req.TotalCredits != nil {
		block.TotalCredits = req.TotalCredits
	}
	if req.IsRequired != nil {
		block.IsRequired = *req.IsRequired
	}
	if req.IsActive != nil {
		block.IsActive = *req.IsActive
	}

	if err := h.db.Save(&block).Error; err != nil {
		return response.InternalServerError(c, "Failed to update knowledge block")
	}

	// Credit values may have changed; refresh every attached program's total
	if err := h.aggregator.RecalculateForBlock(block.ID); err != nil {
		return response.InternalServerError(c, "Failed to refresh program credit totals")
	}

	return response.SuccessWithMessage(c, "Knowledge block updated successfully", block)
}

// DeleteKnowledgeBlock handles DELETE /api/v1/knowledge-blocks/:id
func (h *KnowledgeBlockHandler) DeleteKnowledgeBlock(c *fiber.Ctx) error {
	id := c.Params("id")

	var block model.KnowledgeBlock
	if err := h.db.First(&block, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Knowledge block not found")
		}
		return response.InternalServerError(c, "Failed to fetch knowledge block")
	}

	var usageCount int64
	if err := h.db.Model(&model.ProgramKnowledgeBlock{}).
		Where("knowledge_block_id = ?", id).Count(&usageCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check knowledge block dependencies")
	}
	if usageCount > 0 {
		return response.Conflict(c, "Cannot delete knowledge block that is attached to a program")
	}

	if err := h.db.Delete(&block).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete knowledge block")
	}

	return response.SuccessWithMessage(c, "Knowledge block deleted successfully", nil)
}
