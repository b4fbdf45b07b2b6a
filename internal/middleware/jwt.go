package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artfit-app/backend/internal/utils"
)

// CookieName is where the access token lands for browser clients. API
// clients send it as a bearer token instead.
const CookieName = "af_token"

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "unauthorized",
	})
}

func tokenFromRequest(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
	}
	return c.Cookies(CookieName)
}

// RequireAuth rejects requests without a valid access token and stores the
// caller's id and role in locals.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			return unauthorized(c)
		}

		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return unauthorized(c)
		}

		uid := strings.TrimSpace(claims.UserID)
		if uid == "" {
			return unauthorized(c)
		}

		c.Locals("userId", uid)
		c.Locals("role", strings.ToUpper(strings.TrimSpace(claims.Role)))
		return c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets the request through anonymously otherwise.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			return c.Next()
		}
		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil || strings.TrimSpace(claims.UserID) == "" {
			return c.Next()
		}
		c.Locals("userId", claims.UserID)
		c.Locals("role", strings.ToUpper(strings.TrimSpace(claims.Role)))
		return c.Next()
	}
}
