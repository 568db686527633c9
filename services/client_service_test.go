package services

import (
	"testing"

	"raterware/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateClientProvisionsAdminAndSettings(t *testing.T) {
	db := newTestDB(t)
	svc := NewClientService(db)

	client, err := svc.CreateClient("Acme", "billing@acme.test", "admin", "admin@acme.test", "s3cret")
	require.NoError(t, err)
	require.Equal(t, models.TierFree, client.Tier)

	var admin models.User
	require.NoError(t, db.Where("client_id = ?", client.ID).First(&admin).Error)
	require.True(t, admin.IsAdmin)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("s3cret")))

	var settings models.Settings
	require.NoError(t, db.Where("client_id = ?", client.ID).First(&settings).Error)
	require.Equal(t, 71, settings.GreenMin)
}

func TestSetTier(t *testing.T) {
	db := newTestDB(t)
	svc := NewClientService(db)

	client, err := svc.CreateClient("Acme", "billing@acme.test", "admin", "admin@acme.test", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.SetTier(client.ID, models.TierProfessional))

	got, err := svc.GetClient(client.ID)
	require.NoError(t, err)
	require.Equal(t, models.TierProfessional, got.Tier)
	require.True(t, got.Tier.Limits().AIRecommendations)

	require.ErrorIs(t, svc.SetTier(client.ID+999, models.TierBasic), ErrClientNotFound)
}

func TestSetTierByEmailExistingClient(t *testing.T) {
	db := newTestDB(t)
	svc := NewClientService(db)

	client, err := svc.CreateClient("Acme", "billing@acme.test", "admin", "admin@acme.test", "pw")
	require.NoError(t, err)

	updated, err := svc.SetTierByEmail("billing@acme.test", models.TierBasic)
	require.NoError(t, err)
	require.Equal(t, client.ID, updated.ID)
	require.Equal(t, models.TierBasic, updated.Tier)
}

func TestSetTierByEmailCreatesMissingClient(t *testing.T) {
	db := newTestDB(t)
	svc := NewClientService(db)

	// Billing can fire before the client ever registers
	created, err := svc.SetTierByEmail("paid-first@customer.test", models.TierProfessional)
	require.NoError(t, err)
	require.Equal(t, models.TierProfessional, created.Tier)

	got, err := svc.GetClientByEmail("paid-first@customer.test")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	// The created client carries default settings like any other
	var settings models.Settings
	require.NoError(t, db.Where("client_id = ?", created.ID).First(&settings).Error)

	_, err = svc.SetTierByEmail("", models.TierBasic)
	require.Error(t, err)
}

func TestToggleBlock(t *testing.T) {
	db := newTestDB(t)
	svc := NewClientService(db)

	client, err := svc.CreateClient("Acme", "billing@acme.test", "admin", "admin@acme.test", "pw")
	require.NoError(t, err)

	blocked, err := svc.ToggleBlock(client.ID)
	require.NoError(t, err)
	require.True(t, blocked)

	blocked, err = svc.ToggleBlock(client.ID)
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestDeleteClientCascades(t *testing.T) {
	db := newTestDB(t)
	clients := NewClientService(db)
	ratings := NewRatingService(db)
	client, _, member := seedMember(t, db)

	_, err := ratings.SubmitRating(client.ID, member.ID, uniformScores(5))
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Settings{ClientID: client.ID}).Error)

	require.NoError(t, clients.DeleteClient(client.ID))

	for _, model := range []interface{}{
		&models.Team{}, &models.TeamMember{}, &models.Rating{},
		&models.User{}, &models.Settings{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		require.Zero(t, count)
	}
}

func TestGetSettingsCreatesDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewClientService(db)
	client, _, _ := seedMember(t, db)

	settings, err := svc.GetSettings(client.ID)
	require.NoError(t, err)
	require.True(t, settings.FrequencyMonthly)
	require.True(t, settings.NotifyThreeDays)

	// Second read returns the same row, not another insert
	again, err := svc.GetSettings(client.ID)
	require.NoError(t, err)
	require.Equal(t, settings.ID, again.ID)
}

func TestSaveSettings(t *testing.T) {
	db := newTestDB(t)
	svc := NewClientService(db)
	client, _, _ := seedMember(t, db)

	current, err := svc.GetSettings(client.ID)
	require.NoError(t, err)

	updated := *current
	updated.GreenMin = 65
	updated.NotifyOneWeek = true

	saved, err := svc.SaveSettings(client.ID, updated)
	require.NoError(t, err)
	require.Equal(t, 65, saved.GreenMin)
	require.True(t, saved.NotifyOneWeek)

	reread, err := svc.GetSettings(client.ID)
	require.NoError(t, err)
	require.Equal(t, 65, reread.GreenMin)
}

func TestUpdateUserReassignsTeams(t *testing.T) {
	db := newTestDB(t)
	clients := NewClientService(db)
	teams := NewTeamService(db)
	client, teamA, _ := seedMember(t, db)

	teamB, err := teams.CreateTeam(client.ID, "Second")
	require.NoError(t, err)

	user, err := clients.CreateUser(client.ID, "mgr", "mgr@acme.test", "pw", []uint{teamA.ID})
	require.NoError(t, err)

	gotA, err := teams.GetTeam(client.ID, teamA.ID)
	require.NoError(t, err)
	require.NotNil(t, gotA.UserID)

	_, err = clients.UpdateUser(client.ID, user.ID, "mgr", "mgr@acme.test", "", []uint{teamB.ID})
	require.NoError(t, err)

	gotA, err = teams.GetTeam(client.ID, teamA.ID)
	require.NoError(t, err)
	require.Nil(t, gotA.UserID)

	gotB, err := teams.GetTeam(client.ID, teamB.ID)
	require.NoError(t, err)
	require.NotNil(t, gotB.UserID)
	require.Equal(t, user.ID, *gotB.UserID)
}
