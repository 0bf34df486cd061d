package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/utils/auth"
	"github.com/sahilchouksey/uni-admin-api/utils/middleware"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
	"github.com/sahilchouksey/uni-admin-api/utils/validation"
)

// Handler manages staff authentication and profile endpoints
type Handler struct {
	db         *gorm.DB
	jwtManager *auth.JWTManager
	validator  *validation.Validator
}

// NewHandler creates a new auth handler
func NewHandler(db *gorm.DB, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		db:         db,
		jwtManager: jwtManager,
		validator:  validation.NewValidator(),
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"omitempty,min=2,max=100"`
}

// ChangePasswordRequest represents the password change request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	err := h.db.Where("email = ?", validation.SanitizeString(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.InternalServerError(c, "Failed to look up user")
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return response.Unauthorized(c, "Invalid email or password")
	}

	accessToken, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}
	refreshToken, err := h.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate refresh token")
	}

	return response.SuccessWithMessage(c, "Login successful", fiber.Map{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Refresh handles POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	accessToken, err := h.jwtManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	return response.Success(c, fiber.Map{"access_token": accessToken})
}

// GetProfile handles GET /api/v1/profile
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	return response.Success(c, user)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Name != "" {
		user.Name = validation.SanitizeString(req.Name)
	}

	if err := h.db.Save(user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.SuccessWithMessage(c, "Profile updated successfully", user)
}

// ChangePassword handles POST /api/v1/auth/change-password
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return response.Unauthorized(c, "Current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to hash password")
	}

	if err := h.db.Model(user).Update("password_hash", hash).Error; err != nil {
		return response.InternalServerError(c, "Failed to change password")
	}

	return response.SuccessWithMessage(c, "Password changed successfully", nil)
}
