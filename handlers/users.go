// handlers/users.go - Tenant User Administration
package handlers

import (
	"raterware/middleware"

	"github.com/gofiber/fiber/v2"
)

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	TeamIDs  []uint `json:"team_ids"`
}

// GetUsers lists the caller's users with their managed teams.
// GET /api/users
func GetUsers(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}

	users, err := clientService.GetUsers(clientID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "users": users})
}

// CreateUser adds a user to the caller's client.
// POST /api/users
func CreateUser(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}

	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Username == "" || req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Username and email are required"})
	}

	user, err := clientService.CreateUser(clientID, req.Username, req.Email, req.Password, req.TeamIDs)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "user": user})
}

// UpdateUser edits one of the caller's users.
// PUT /api/users/:id
func UpdateUser(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	user, err := clientService.UpdateUser(clientID, uint(userID), req.Username, req.Email, req.Password, req.TeamIDs)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// DeleteUser removes one of the caller's users.
// DELETE /api/users/:id
func DeleteUser(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	if err := clientService.DeleteUser(clientID, uint(userID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "User deleted"})
}
