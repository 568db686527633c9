// handlers/admin.go - Platform Admin Client Management
//
// These routes are mounted behind AuthMiddleware + RequireAdmin and operate
// across tenants.
package handlers

import (
	"context"
	"log"

	"raterware/models"

	"github.com/gofiber/fiber/v2"
)

type adminClientRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	AdminUsername string `json:"admin_username"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
	Tier          *int   `json:"tier"`
}

// AdminListClients lists every tenant.
// GET /api/admin/clients
func AdminListClients(c *fiber.Ctx) error {
	clients, err := clientService.ListClients()
	if err != nil {
		return serviceError(c, err)
	}

	result := make([]fiber.Map, 0, len(clients))
	for _, client := range clients {
		result = append(result, fiber.Map{
			"id":         client.ID,
			"name":       client.Name,
			"email":      client.Email,
			"tier":       client.Tier,
			"tier_name":  client.Tier.String(),
			"is_blocked": client.IsBlocked,
			"created_at": client.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"success": true, "clients": result})
}

// AdminCreateClient provisions a tenant with its first admin user.
// POST /api/admin/clients
func AdminCreateClient(c *fiber.Ctx) error {
	var req adminClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Name == "" || req.Email == "" || req.AdminPassword == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Name, email and admin password are required"})
	}

	adminUsername := req.AdminUsername
	if adminUsername == "" {
		adminUsername = req.AdminEmail
	}
	adminEmail := req.AdminEmail
	if adminEmail == "" {
		adminEmail = req.Email
	}

	client, err := clientService.CreateClient(req.Name, req.Email, adminUsername, adminEmail, req.AdminPassword)
	if err != nil {
		return serviceError(c, err)
	}

	if req.Tier != nil {
		if err := clientService.SetTier(client.ID, models.Tier(*req.Tier)); err != nil {
			return serviceError(c, err)
		}
		client.Tier = models.Tier(*req.Tier)
	}

	log.Printf("Client %d (%s) provisioned", client.ID, client.Name)
	return c.Status(201).JSON(fiber.Map{"success": true, "client": client})
}

// AdminUpdateClient renames a tenant or changes its tier.
// PUT /api/admin/clients/:id
func AdminUpdateClient(c *fiber.Ctx) error {
	clientID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid client ID"})
	}

	var req adminClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	client, err := clientService.GetClient(uint(clientID))
	if err != nil {
		return serviceError(c, err)
	}

	if req.Name != "" && req.Name != client.Name {
		if client, err = clientService.UpdateClient(uint(clientID), req.Name); err != nil {
			return serviceError(c, err)
		}
	}

	if req.Tier != nil {
		if err := clientService.SetTier(uint(clientID), models.Tier(*req.Tier)); err != nil {
			return serviceError(c, err)
		}
		client.Tier = models.Tier(*req.Tier)
	}

	return c.JSON(fiber.Map{"success": true, "client": client})
}

// AdminToggleBlock flips a tenant's blocked flag. The hourly enforcement
// sweep propagates it to the identity provider; this endpoint also pushes
// it immediately when Auth0 is configured.
// POST /api/admin/clients/:id/toggle-block
func AdminToggleBlock(c *fiber.Ctx) error {
	clientID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid client ID"})
	}

	blocked, err := clientService.ToggleBlock(uint(clientID))
	if err != nil {
		return serviceError(c, err)
	}

	if auth0Client != nil && auth0Client.Configured() {
		users, err := clientService.GetUsers(uint(clientID))
		if err == nil {
			for _, user := range users {
				if err := auth0Client.SetBlockedByEmail(context.Background(), user.Email, blocked); err != nil {
					log.Printf("Failed to update blocked state for %s: %v", user.Email, err)
				}
			}
		}
	}

	return c.JSON(fiber.Map{"success": true, "is_blocked": blocked})
}

// AdminDeleteClient removes a tenant and everything it owns.
// DELETE /api/admin/clients/:id
func AdminDeleteClient(c *fiber.Ctx) error {
	clientID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid client ID"})
	}

	if err := clientService.DeleteClient(uint(clientID)); err != nil {
		return serviceError(c, err)
	}

	log.Printf("Client %d deleted", clientID)
	return c.JSON(fiber.Map{"success": true, "message": "Client deleted"})
}

// AdminGetClientUsers lists a tenant's users.
// GET /api/admin/clients/:id/users
func AdminGetClientUsers(c *fiber.Ctx) error {
	clientID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid client ID"})
	}

	if _, err := clientService.GetClient(uint(clientID)); err != nil {
		return serviceError(c, err)
	}

	users, err := clientService.GetUsers(uint(clientID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "users": users})
}
