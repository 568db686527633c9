// handlers/auth.go - Registration, Login and JWT issuing
package handlers

import (
	"fmt"
	"os"
	"time"

	"raterware/database"
	"raterware/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	User    UserInfo `json:"user,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	ClientID uint   `json:"client_id"`
	Tier     int    `json:"tier"`
}

// Register creates a new client together with its first admin user.
// POST /api/auth/register
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	if req.CompanyName == "" || req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Company name, email and password required"})
	}

	username := req.Username
	if username == "" {
		username = fmt.Sprintf("admin_%s", uuid.New().String()[:8])
	}

	client, err := clientService.CreateClient(req.CompanyName, req.Email, username, req.Email, req.Password)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to create account"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("client_id = ? AND is_admin = ?", client.ID, true).First(&user).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to load created user"})
	}

	token, err := generateToken(&user, client)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}

	return c.Status(201).JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(&user, client),
	})
}

// Login authenticates a user and issues a JWT with tenant claims.
// POST /api/auth/login
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Username and password required"})
	}

	db := database.GetDB()

	var user models.User
	if err := db.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
	}

	var client models.Client
	if err := db.First(&client, user.ClientID).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to load client"})
	}

	if client.IsBlocked {
		return c.Status(403).JSON(AuthResponse{Success: false, Error: "Account is blocked"})
	}

	db.Model(&user).Update("last_login", time.Now())

	token, err := generateToken(&user, &client)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(&user, &client),
	})
}

// Me returns the authenticated user's profile.
// GET /api/users/me
func Me(c *fiber.Ctx) error {
	userID := c.Locals("userId")
	db := database.GetDB()

	var id uint
	switch v := userID.(type) {
	case float64:
		id = uint(v)
	case uint:
		id = v
	default:
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	var user models.User
	if err := db.Preload("Client").First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	tier := models.TierFree
	if user.Client != nil {
		tier = user.Client.Tier
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"is_admin":  user.IsAdmin,
			"client_id": user.ClientID,
			"tier":      tier,
			"limits":    tier.Limits(),
		},
	})
}

func userInfo(user *models.User, client *models.Client) UserInfo {
	return UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		ClientID: user.ClientID,
		Tier:     int(client.Tier),
	}
}

func generateToken(user *models.User, client *models.Client) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"client_id": user.ClientID,
		"username":  user.Username,
		"is_admin":  user.IsAdmin,
		"tier":      int(client.Tier),
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
