// handlers/ratings.go - Rating Ledger HTTP Surface
package handlers

import (
	"raterware/middleware"
	"raterware/models"
	"raterware/services"

	"github.com/gofiber/fiber/v2"
)

// SubmitRating records a rating for a team member. Scores arrive as numbers
// or numeric strings; anything unparsable counts as zero.
// POST /api/members/:id/ratings
func SubmitRating(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	memberID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member ID"})
	}

	var scores models.RatingScores
	if err := c.BodyParser(&scores); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	rating, err := ratingService.SubmitRating(clientID, uint(memberID), scores)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "rating": rating})
}

// GetLatestRating returns the member's most recent rating. A member with no
// ratings gets a zero-filled payload, not a 404.
// GET /api/members/:id/ratings/latest
func GetLatestRating(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	memberID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member ID"})
	}

	rating, err := ratingService.GetLatestRating(clientID, uint(memberID))
	if err != nil {
		return serviceError(c, err)
	}

	if rating == nil {
		return c.JSON(fiber.Map{
			"success":     true,
			"rating":      nil,
			"criteria":    (*models.Rating)(nil).Criteria(),
			"total_score": 0,
			"avg_score":   0.0,
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"rating":      rating,
		"criteria":    rating.Criteria(),
		"total_score": rating.TotalScore,
		"avg_score":   rating.AvgScore,
	})
}

// GetRatingHistory returns the member's ratings, newest first. The limit
// query parameter caps the depth; it defaults to the chart depth.
// GET /api/members/:id/ratings?limit=12
func GetRatingHistory(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	memberID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member ID"})
	}

	limit := c.QueryInt("limit", services.HistoryChartLimit)
	if limit < 0 {
		limit = 0
	}

	ratings, err := ratingService.GetHistory(clientID, uint(memberID), limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"ratings": ratings,
		"count":   len(ratings),
	})
}

// GetMemberSummary returns the member's current standing plus the average
// total score across the retained history.
// GET /api/members/:id/summary
func GetMemberSummary(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	memberID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member ID"})
	}

	summary, err := ratingService.Aggregate(clientID, uint(memberID))
	if err != nil {
		return serviceError(c, err)
	}

	historyAvg, err := ratingService.HistoryAverage(clientID, uint(memberID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"total_score":     summary.TotalScore,
		"avg_score":       summary.AvgScore,
		"history_average": historyAvg,
	})
}

// GetLastSubmission reports the newest rating across a whole team.
// GET /api/teams/:id/last-submission
func GetLastSubmission(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	teamID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	last, err := ratingService.GetLastSubmission(clientID, uint(teamID))
	if err != nil {
		return serviceError(c, err)
	}

	if last == nil {
		return c.JSON(fiber.Map{"success": true, "last_submission": nil})
	}
	return c.JSON(fiber.Map{"success": true, "last_submission": last})
}

// GetRecommendation generates an AI performance recommendation for the
// member. Available on AI-enabled tiers only.
// GET /api/members/:id/recommendation
func GetRecommendation(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}
	memberID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member ID"})
	}

	tier := models.Tier(middleware.GetTier(c))
	if !tier.Limits().AIRecommendations {
		return c.Status(403).JSON(fiber.Map{
			"success": false,
			"error":   "AI recommendations require a Professional or Enterprise plan",
		})
	}

	if recommendationService == nil {
		return c.Status(503).JSON(fiber.Map{"success": false, "error": "Recommendation service not configured"})
	}

	rec, err := recommendationService.ForMember(c.Context(), clientID, uint(memberID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"recommendation":    rec.Recommendation,
		"future_prediction": rec.FuturePrediction,
	})
}
