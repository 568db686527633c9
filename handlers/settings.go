// handlers/settings.go - Per-Client Settings
package handlers

import (
	"raterware/middleware"
	"raterware/models"

	"github.com/gofiber/fiber/v2"
)

type settingsRequest struct {
	ScoreRanges        map[string]models.ScoreRange `json:"score_ranges"`
	EmailNotifications map[string]bool              `json:"email_notifications"`
	RatingFrequency    map[string]bool              `json:"rating_frequency"`
}

// GetSettings returns the caller's settings, creating defaults on first use.
// GET /api/settings
func GetSettings(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}

	settings, err := clientService.GetSettings(clientID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "settings": settings.ToMap()})
}

// SaveSettings replaces the caller's settings.
// POST /api/settings
func SaveSettings(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}

	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	current, err := clientService.GetSettings(clientID)
	if err != nil {
		return serviceError(c, err)
	}

	updated := *current
	applySettings(&updated, req)

	saved, err := clientService.SaveSettings(clientID, updated)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "settings": saved.ToMap()})
}

func applySettings(s *models.Settings, req settingsRequest) {
	if r, ok := req.ScoreRanges["red"]; ok {
		s.RedMin, s.RedMax = r.Min, r.Max
	}
	if r, ok := req.ScoreRanges["orange"]; ok {
		s.OrangeMin, s.OrangeMax = r.Min, r.Max
	}
	if r, ok := req.ScoreRanges["white"]; ok {
		s.WhiteMin, s.WhiteMax = r.Min, r.Max
	}
	if r, ok := req.ScoreRanges["green"]; ok {
		s.GreenMin, s.GreenMax = r.Min, r.Max
	}

	if v, ok := req.EmailNotifications["1_week"]; ok {
		s.NotifyOneWeek = v
	}
	if v, ok := req.EmailNotifications["3_days"]; ok {
		s.NotifyThreeDays = v
	}
	if v, ok := req.EmailNotifications["1_day"]; ok {
		s.NotifyOneDay = v
	}

	if v, ok := req.RatingFrequency["weekly"]; ok {
		s.FrequencyWeekly = v
	}
	if v, ok := req.RatingFrequency["bi_weekly"]; ok {
		s.FrequencyBiWeekly = v
	}
	if v, ok := req.RatingFrequency["monthly"]; ok {
		s.FrequencyMonthly = v
	}
	if v, ok := req.RatingFrequency["quarterly"]; ok {
		s.FrequencyQuarterly = v
	}
}
