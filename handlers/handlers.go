// handlers/handlers.go - Service wiring for HTTP handlers
package handlers

import (
	"os"

	"raterware/database"
	"raterware/services"

	openai "github.com/sashabaranov/go-openai"
)

var (
	teamService           *services.TeamService
	ratingService         *services.RatingService
	clientService         *services.ClientService
	recommendationService *services.RecommendationService
	auth0Client           *services.Auth0Client
)

// InitHandlers initializes the services behind the HTTP handlers.
func InitHandlers() {
	db := database.GetDB()

	teamService = services.NewTeamService(db)
	ratingService = services.NewRatingService(db)
	clientService = services.NewClientService(db)
	auth0Client = services.NewAuth0ClientFromEnv()

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		recommendationService = services.NewRecommendationService(
			ratingService, openai.NewClient(apiKey))
	}
}
