package middleware

import (
	"strings"

	"github.com/arunanksharan/rivo/internal/config"
	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/models"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// JWTProtected rejects requests without a valid access token.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// OptionalAuth parses a bearer token when present but lets anonymous
// requests through. Used on endpoints whose response depends on who is
// asking, like unpublished property reads.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			// A bad token on an optional route is treated as anonymous.
			return c.Next()
		}

		c.Locals("user", token)
		return c.Next()
	}
}

// LoadCurrentUser resolves the token subject against the database and
// stashes the row in locals. Must run after JWTProtected or OptionalAuth.
// On optional routes a missing token simply skips the lookup.
func LoadCurrentUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return c.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid token claims",
			})
		}
		sub, _ := claims["sub"].(string)

		var user models.User
		if err := db.First(&user, "id = ?", sub).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "User not found in database",
			})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Inactive user",
			})
		}

		c.Locals("current_user", &user)
		return c.Next()
	}
}

// CurrentUser returns the loaded user row, or nil on anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("current_user").(*models.User)
	return user
}

// GetUserID extracts the token subject without a database lookup.
func GetUserID(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
