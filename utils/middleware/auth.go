package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
	"github.com/sahilchouksey/uni-admin-api/utils/auth"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// authenticate validates the bearer token, loads the user and stores both
// in the request context. On failure the error response has already been
// written and the returned user is nil.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*model.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, response.Unauthorized(c, "Missing authorization token")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, response.Unauthorized(c, "Invalid authorization format")
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, response.Unauthorized(c, "Token has expired")
		}
		return nil, response.Unauthorized(c, "Invalid token")
	}

	if claims.TokenType != "access" {
		return nil, response.Unauthorized(c, "Invalid token type")
	}

	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.Unauthorized(c, "User not found")
		}
		return nil, response.InternalServerError(c, "Failed to load user")
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", claims.Role)
	c.Locals("user", &user)

	return &user, nil
}

// Required is middleware that requires a valid JWT access token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := m.authenticate(c)
		if user == nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin is middleware that requires a valid token with the admin role
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := m.authenticate(c)
		if user == nil {
			return err
		}
		if user.Role != "admin" {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

// GetUser retrieves the authenticated user from the request context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals("user").(*model.User)
	return user, ok
}
