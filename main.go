package main

import (
	"log"
	"os"
	"time"

	"raterware/database"
	"raterware/handlers"
	"raterware/middleware"
	"raterware/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Wire handler services and billing
	handlers.InitHandlers()
	handlers.InitStripe()

	// Initialize account enforcement sweep
	services.InitEnforcementService(database.GetDB(), services.NewAuth0ClientFromEnv())
	services.GetEnforcementService().Start()
	defer services.GetEnforcementService().Stop()

	// Daily rating reminder emails
	if os.Getenv("MAIL_SERVER") != "" {
		go runReminderScheduler(services.NewNotificationService(database.GetDB()))
	} else {
		log.Println("MAIL_SERVER not set, reminder emails disabled")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// Stripe webhook sits outside /api: it is signature-gated, not JWT-gated
	app.Post("/stripe-webhook", handlers.StripeWebhook)
	app.Get("/billing/success", handlers.CheckoutSuccess)
	app.Get("/billing/cancelled", handlers.CheckoutCancelled)

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.Me)
	userGroup.Get("/", handlers.GetUsers)
	userGroup.Post("/", handlers.CreateUser)
	userGroup.Put("/:id", handlers.UpdateUser)
	userGroup.Delete("/:id", handlers.DeleteUser)

	// Team routes
	teamGroup := api.Group("/teams")
	teamGroup.Use(middleware.AuthMiddleware)
	teamGroup.Get("/", handlers.GetTeams)
	teamGroup.Post("/", handlers.CreateTeam)
	teamGroup.Get("/:id", handlers.GetTeam)
	teamGroup.Put("/:id", handlers.UpdateTeam)
	teamGroup.Delete("/:id", handlers.DeleteTeam)
	teamGroup.Get("/:id/members", handlers.GetTeamMembers)
	teamGroup.Post("/:id/members", handlers.AddTeamMember)
	teamGroup.Get("/:id/last-submission", handlers.GetLastSubmission)

	// Member and rating routes
	memberGroup := api.Group("/members")
	memberGroup.Use(middleware.AuthMiddleware)
	memberGroup.Put("/:id", handlers.UpdateTeamMember)
	memberGroup.Delete("/:id", handlers.DeleteTeamMember)
	memberGroup.Post("/:id/ratings", handlers.SubmitRating)
	memberGroup.Get("/:id/ratings", handlers.GetRatingHistory)
	memberGroup.Get("/:id/ratings/latest", handlers.GetLatestRating)
	memberGroup.Get("/:id/summary", handlers.GetMemberSummary)
	memberGroup.Get("/:id/recommendation", handlers.GetRecommendation)

	// Settings routes
	settingsGroup := api.Group("/settings")
	settingsGroup.Use(middleware.AuthMiddleware)
	settingsGroup.Get("/", handlers.GetSettings)
	settingsGroup.Post("/", handlers.SaveSettings)

	// Billing routes
	billingGroup := api.Group("/billing")
	billingGroup.Use(middleware.AuthMiddleware)
	billingGroup.Post("/checkout", handlers.CreateCheckoutSession)

	// Platform admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware)
	adminGroup.Use(middleware.RequireAdmin)
	adminGroup.Get("/clients", handlers.AdminListClients)
	adminGroup.Post("/clients", handlers.AdminCreateClient)
	adminGroup.Put("/clients/:id", handlers.AdminUpdateClient)
	adminGroup.Delete("/clients/:id", handlers.AdminDeleteClient)
	adminGroup.Post("/clients/:id/toggle-block", handlers.AdminToggleBlock)
	adminGroup.Get("/clients/:id/users", handlers.AdminGetClientUsers)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// runReminderScheduler fires once a day at 08:00 UTC and sends any reminder
// emails due that day of the month.
func runReminderScheduler(notifications *services.NotificationService) {
	for {
		now := time.Now().UTC()
		next := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		time.Sleep(next.Sub(now))

		day := time.Now().UTC().Day()
		if err := notifications.SendReminders(day); err != nil {
			log.Printf("Reminder run failed: %v", err)
		}
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
