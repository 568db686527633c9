// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"raterware/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.Client{},
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Rating{},
		&models.Settings{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes beyond what the model tags declare
func createIndexes() {
	db := GetDB()

	// Tenant ownership lookups
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_client ON teams(client_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_client ON users(client_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_team_members_team ON team_members(team_id)")

	// Rating history is always read ordered by time within a member
	db.Exec("CREATE INDEX IF NOT EXISTS idx_ratings_member_ts ON ratings(team_member_id, timestamp)")

	log.Println("✅ Indexes created successfully")
}
