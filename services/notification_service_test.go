package services

import (
	"testing"

	"raterware/models"

	"github.com/stretchr/testify/require"
)

func TestReminderKind(t *testing.T) {
	require.Equal(t, "1_week", ReminderKind(18))
	require.Equal(t, "3_days", ReminderKind(22))
	require.Equal(t, "1_day", ReminderKind(24))
	require.Equal(t, "", ReminderKind(25))
	require.Equal(t, "", ReminderKind(1))
}

func TestClientsToNotify(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	optedIn := &models.Client{Name: "In", Email: "in@test.test"}
	optedOut := &models.Client{Name: "Out", Email: "out@test.test"}
	require.NoError(t, db.Create(optedIn).Error)
	require.NoError(t, db.Create(optedOut).Error)

	require.NoError(t, db.Create(&models.Settings{ClientID: optedIn.ID, NotifyOneWeek: true}).Error)
	require.NoError(t, db.Create(&models.Settings{ClientID: optedOut.ID, NotifyOneWeek: false}).Error)

	due, err := svc.ClientsToNotify(18)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, optedIn.ID, due[0].ClientID)

	// No reminder is due on an ordinary day
	due, err = svc.ClientsToNotify(10)
	require.NoError(t, err)
	require.Empty(t, due)
}
