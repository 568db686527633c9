package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-for-auth-middleware-tests"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", AuthMiddleware, func(c *fiber.Ctx) error {
		clientID, err := GetClientID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"client_id": clientID, "tier": GetTier(c), "admin": IsAdmin(c)})
	})
	app.Get("/admin", AuthMiddleware, RequireAdmin, func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	return app
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	token := signToken(t, jwt.MapClaims{
		"user_id":   1,
		"client_id": 42,
		"username":  "jane",
		"is_admin":  false,
		"tier":      2,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

func TestAuthMiddlewareRejections(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	// Missing header
	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)

	// Malformed header
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)

	// Expired token
	expired := signToken(t, jwt.MapClaims{
		"user_id":   1,
		"client_id": 42,
		"exp":       time.Now().Add(-time.Hour).Unix(),
	})
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)

	// Wrong signing key
	wrong := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"client_id": 42,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	signed, err := wrong.SignedString([]byte("another-secret-entirely-here!!"))
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	member := signToken(t, jwt.MapClaims{
		"user_id":   1,
		"client_id": 42,
		"is_admin":  false,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+member)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)

	admin := signToken(t, jwt.MapClaims{
		"user_id":   1,
		"client_id": 42,
		"is_admin":  true,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}
