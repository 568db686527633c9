package services

import (
	"testing"

	"raterware/models"

	"github.com/stretchr/testify/require"
)

func TestSubmitRatingComputesScores(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	// 2+3+4+5+6+7+8+9 = 44
	scores := models.RatingScores{
		AbilityToImpartKnowledge: 2,
		Approachable:             3,
		NecessarySkills:          4,
		Trained:                  5,
		Absence:                  6,
		SelfMotivation:           7,
		CapacityForLearning:      8,
		Adaptability:             9,
	}

	rating, err := svc.SubmitRating(client.ID, member.ID, scores)
	require.NoError(t, err)
	require.Equal(t, 44, rating.TotalScore)
	require.Equal(t, 5.5, rating.AvgScore)
	require.False(t, rating.Timestamp.IsZero())
}

func TestSubmitRatingSingleCriterion(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	rating, err := svc.SubmitRating(client.ID, member.ID, models.RatingScores{Trained: 10})
	require.NoError(t, err)
	require.Equal(t, 10, rating.TotalScore)
	require.Equal(t, 1.25, rating.AvgScore)
}

func TestHistoryBoundedByWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	for i := 0; i < HistoryWindow+6; i++ {
		_, err := svc.SubmitRating(client.ID, member.ID, uniformScores(i%10))
		require.NoError(t, err)
	}

	history, err := svc.GetHistory(client.ID, member.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, HistoryWindow)
}

func TestHistoryBelowWindowKeepsAll(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	for i := 0; i < 5; i++ {
		_, err := svc.SubmitRating(client.ID, member.ID, uniformScores(i))
		require.NoError(t, err)
	}

	history, err := svc.GetHistory(client.ID, member.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 5)
}

func TestEvictionIsFIFO(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	// 30 submissions with distinguishable totals: the i-th carries
	// total_score = 8*(i%10). After eviction only submissions 7..30
	// (1-based) must survive.
	var ids []uint
	for i := 1; i <= 30; i++ {
		r, err := svc.SubmitRating(client.ID, member.ID, uniformScores(i%10))
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	history, err := svc.GetHistory(client.ID, member.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, HistoryWindow)

	// Newest first: the head is submission 30, the tail is submission 7.
	require.Equal(t, ids[29], history[0].ID)
	require.Equal(t, ids[6], history[HistoryWindow-1].ID)

	// The first six submissions are gone from storage entirely.
	var count int64
	require.NoError(t, db.Model(&models.Rating{}).
		Where("id IN ?", ids[:6]).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetLatestRating(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	_, err := svc.SubmitRating(client.ID, member.ID, uniformScores(3))
	require.NoError(t, err)
	last, err := svc.SubmitRating(client.ID, member.ID, uniformScores(7))
	require.NoError(t, err)

	latest, err := svc.GetLatestRating(client.ID, member.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, last.ID, latest.ID)
	require.Equal(t, 56, latest.TotalScore)
}

func TestGetLatestRatingEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	latest, err := svc.GetLatestRating(client.ID, member.ID)
	require.NoError(t, err)
	require.Nil(t, latest)

	summary, err := svc.Aggregate(client.ID, member.ID)
	require.NoError(t, err)
	require.Zero(t, summary.TotalScore)
	require.Zero(t, summary.AvgScore)
}

func TestSubmitRatingRejectsForeignMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	_, _, member := seedMember(t, db)

	other := &models.Client{Name: "Rival", Email: "rival@rival.test"}
	require.NoError(t, db.Create(other).Error)

	_, err := svc.SubmitRating(other.ID, member.ID, uniformScores(5))
	require.ErrorIs(t, err, ErrMemberNotFound)

	// Ownership is checked before the write: no row may exist.
	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestReadsRejectForeignMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	_, err := svc.SubmitRating(client.ID, member.ID, uniformScores(5))
	require.NoError(t, err)

	other := &models.Client{Name: "Rival", Email: "rival@rival.test"}
	require.NoError(t, db.Create(other).Error)

	_, err = svc.GetLatestRating(other.ID, member.ID)
	require.ErrorIs(t, err, ErrMemberNotFound)
	_, err = svc.GetHistory(other.ID, member.ID, 0)
	require.ErrorIs(t, err, ErrMemberNotFound)
	_, err = svc.Aggregate(other.ID, member.ID)
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestGetHistoryIsStable(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	for i := 0; i < 20; i++ {
		_, err := svc.SubmitRating(client.ID, member.ID, uniformScores(i%10))
		require.NoError(t, err)
	}

	first, err := svc.GetHistory(client.ID, member.ID, HistoryChartLimit)
	require.NoError(t, err)
	require.Len(t, first, HistoryChartLimit)

	// Reads must not mutate the ledger.
	second, err := svc.GetHistory(client.ID, member.ID, HistoryChartLimit)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestHistoryAverageDiffersFromPerRatingAverage(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	_, err := svc.SubmitRating(client.ID, member.ID, uniformScores(2)) // total 16
	require.NoError(t, err)
	_, err = svc.SubmitRating(client.ID, member.ID, uniformScores(6)) // total 48
	require.NoError(t, err)

	avg, err := svc.HistoryAverage(client.ID, member.ID)
	require.NoError(t, err)
	require.Equal(t, 32.0, avg) // (16+48)/2

	latest, err := svc.GetLatestRating(client.ID, member.ID)
	require.NoError(t, err)
	require.Equal(t, 6.0, latest.AvgScore) // 48/8
}

func TestHistoryAverageEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, _, member := seedMember(t, db)

	avg, err := svc.HistoryAverage(client.ID, member.ID)
	require.NoError(t, err)
	require.Zero(t, avg)
}

func TestGetLastSubmission(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	client, team, member := seedMember(t, db)

	last, err := svc.GetLastSubmission(client.ID, team.ID)
	require.NoError(t, err)
	require.Nil(t, last)

	_, err = svc.SubmitRating(client.ID, member.ID, uniformScores(4))
	require.NoError(t, err)

	last, err = svc.GetLastSubmission(client.ID, team.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, "Jane Doe", last.MemberName)

	_, err = svc.GetLastSubmission(client.ID+999, team.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)
}
