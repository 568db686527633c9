package services

import (
	"fmt"
	"testing"

	"raterware/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Client{},
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Rating{},
		&models.Settings{},
	))

	return db
}

// seedMember creates a client, a team and one member, returning all three.
func seedMember(t *testing.T, db *gorm.DB) (*models.Client, *models.Team, *models.TeamMember) {
	t.Helper()

	client := &models.Client{Name: "Acme", Email: fmt.Sprintf("%s@acme.test", t.Name()), Tier: models.TierEnterprise}
	require.NoError(t, db.Create(client).Error)

	team := &models.Team{Name: "Support", ClientID: client.ID}
	require.NoError(t, db.Create(team).Error)

	member := &models.TeamMember{FirstName: "Jane", Surname: "Doe", EmployerID: "E-100", TeamID: team.ID}
	require.NoError(t, db.Create(member).Error)

	return client, team, member
}

// uniformScores fills every criterion with the same value.
func uniformScores(v int) models.RatingScores {
	return models.RatingScores{
		AbilityToImpartKnowledge: models.FlexScore(v),
		Approachable:             models.FlexScore(v),
		NecessarySkills:          models.FlexScore(v),
		Trained:                  models.FlexScore(v),
		Absence:                  models.FlexScore(v),
		SelfMotivation:           models.FlexScore(v),
		CapacityForLearning:      models.FlexScore(v),
		Adaptability:             models.FlexScore(v),
	}
}
