// middleware/auth.go
package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Missing authorization header"})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid authorization header format"})
	}

	tokenString := parts[1]
	jwtSecret := os.Getenv("JWT_SECRET")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid token claims"})
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Token expired"})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("clientId", claims["client_id"])
	c.Locals("username", claims["username"])
	c.Locals("isAdmin", claims["is_admin"])
	c.Locals("tier", claims["tier"])

	return c.Next()
}

// RequireAdmin rejects non-admin users. Must run after AuthMiddleware.
func RequireAdmin(c *fiber.Ctx) error {
	isAdmin, ok := c.Locals("isAdmin").(bool)
	if !ok || !isAdmin {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Access denied. Admin privileges required."})
	}
	return c.Next()
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(c *fiber.Ctx) (uint, error) {
	return localUint(c, "userId")
}

// GetClientID returns the caller's tenant ID from the request context.
func GetClientID(c *fiber.Ctx) (uint, error) {
	return localUint(c, "clientId")
}

// GetTier returns the caller's subscription tier, defaulting to free.
func GetTier(c *fiber.Ctx) int {
	tier := c.Locals("tier")
	switch v := tier.(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// IsAdmin reports whether the caller has admin privileges.
func IsAdmin(c *fiber.Ctx) bool {
	isAdmin, ok := c.Locals("isAdmin").(bool)
	return ok && isAdmin
}

func localUint(c *fiber.Ctx, key string) (uint, error) {
	val := c.Locals(key)
	if val == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	// JWT claims decode numbers as float64
	switch v := val.(type) {
	case float64:
		return uint(v), nil
	case uint:
		return v, nil
	}

	return 0, fiber.NewError(401, "Invalid claim format")
}
