// handlers/teams.go - Team and Team Member Management
package handlers

import (
	"errors"
	"log"

	"raterware/middleware"
	"raterware/models"
	"raterware/services"

	"github.com/gofiber/fiber/v2"
)

type teamRequest struct {
	Name   string `json:"name"`
	UserID *uint  `json:"user_id"`
}

type memberRequest struct {
	FirstName  string `json:"first_name"`
	Surname    string `json:"surname"`
	EmployerID string `json:"employer_id"`
}

// ================== TEAM CRUD ==================

// GetTeams lists the caller's teams.
// GET /api/teams
func GetTeams(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}

	teams, err := teamService.GetTeams(clientID)
	if err != nil {
		log.Printf("Failed to list teams for client %d: %v", clientID, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "teams": teams})
}

// GetTeam returns one team with its members and their current standing.
// GET /api/teams/:id
func GetTeam(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	teamID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	team, err := teamService.GetTeam(clientID, uint(teamID))
	if err != nil {
		return serviceError(c, err)
	}

	members := make([]fiber.Map, 0, len(team.Members))
	for i := range team.Members {
		summary, err := memberSummary(clientID, &team.Members[i])
		if err != nil {
			return serviceError(c, err)
		}
		members = append(members, summary)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"team": fiber.Map{
			"id":      team.ID,
			"name":    team.Name,
			"user_id": team.UserID,
			"members": members,
		},
	})
}

// CreateTeam creates a team, subject to the tier's team limit.
// POST /api/teams
func CreateTeam(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}

	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Team name is required"})
	}

	team, err := teamService.CreateTeam(clientID, req.Name)
	if err != nil {
		return serviceError(c, err)
	}

	log.Printf("Team %d created for client %d", team.ID, clientID)
	return c.Status(201).JSON(fiber.Map{"success": true, "team": team})
}

// UpdateTeam renames a team and optionally reassigns its manager.
// PUT /api/teams/:id
func UpdateTeam(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	teamID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	team, err := teamService.UpdateTeam(clientID, uint(teamID), req.Name)
	if err != nil {
		return serviceError(c, err)
	}

	if req.UserID != nil {
		if err := teamService.AssignManager(clientID, uint(teamID), req.UserID); err != nil {
			return serviceError(c, err)
		}
		team.UserID = req.UserID
	}

	return c.JSON(fiber.Map{"success": true, "team": team})
}

// DeleteTeam removes a team with its members and ratings.
// DELETE /api/teams/:id
func DeleteTeam(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	teamID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	if err := teamService.DeleteTeam(clientID, uint(teamID)); err != nil {
		return serviceError(c, err)
	}

	log.Printf("Team %d deleted for client %d", teamID, clientID)
	return c.JSON(fiber.Map{"success": true, "message": "Team deleted"})
}

// ================== MEMBER OPERATIONS ==================

// GetTeamMembers lists a team's members with their current standing.
// GET /api/teams/:id/members
func GetTeamMembers(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	teamID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	members, err := teamService.GetTeamMembers(clientID, uint(teamID))
	if err != nil {
		return serviceError(c, err)
	}

	result := make([]fiber.Map, 0, len(members))
	for i := range members {
		summary, err := memberSummary(clientID, &members[i])
		if err != nil {
			return serviceError(c, err)
		}
		result = append(result, summary)
	}

	return c.JSON(fiber.Map{"success": true, "members": result})
}

// AddTeamMember adds a member, subject to the tier's member limit.
// POST /api/teams/:id/members
func AddTeamMember(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	teamID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.FirstName == "" || req.Surname == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "First name and surname are required"})
	}

	member, err := teamService.AddMember(clientID, uint(teamID), req.FirstName, req.Surname, req.EmployerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "member": member})
}

// UpdateTeamMember edits a member's identity fields.
// PUT /api/members/:id
func UpdateTeamMember(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	memberID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member ID"})
	}

	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	member, err := teamService.UpdateMember(clientID, uint(memberID), req.FirstName, req.Surname, req.EmployerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "member": member})
}

// DeleteTeamMember removes a member and its rating history.
// DELETE /api/members/:id
func DeleteTeamMember(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	memberID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member ID"})
	}

	if err := teamService.DeleteMember(clientID, uint(memberID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Member deleted"})
}

// memberSummary renders a member with the scores of its latest rating.
// An unrated member shows zeroed criteria rather than being omitted.
func memberSummary(clientID uint, member *models.TeamMember) (fiber.Map, error) {
	latest, err := ratingService.GetLatestRating(clientID, member.ID)
	if err != nil {
		return nil, err
	}

	summary := fiber.Map{
		"id":          member.ID,
		"first_name":  member.FirstName,
		"surname":     member.Surname,
		"employer_id": member.EmployerID,
		"team_id":     member.TeamID,
		"criteria":    latest.Criteria(),
	}
	if latest != nil {
		summary["total_score"] = latest.TotalScore
		summary["avg_score"] = latest.AvgScore
		summary["last_rated"] = latest.Timestamp
	} else {
		summary["total_score"] = 0
		summary["avg_score"] = 0.0
	}
	return summary, nil
}

// serviceError maps service sentinel errors onto HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNoRatings):
		return c.Status(404).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrTierLimit):
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Subscription limit reached. Please upgrade your plan."})
	case errors.Is(err, services.ErrNotAuthorized):
		return c.Status(403).JSON(fiber.Map{"success": false, "error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Internal server error"})
	}
}
