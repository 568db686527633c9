package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRatingScoresDecoding(t *testing.T) {
	// Scores may arrive as numbers or numeric strings; anything else
	// counts as zero rather than failing the submission.
	payload := `{
		"ability_to_impart_knowledge": 7,
		"approachable": "8",
		"necessary_skills": "not-a-number",
		"trained": null,
		"self_motivation": "",
		"capacity_for_learning": "3"
	}`

	var scores RatingScores
	require.NoError(t, json.Unmarshal([]byte(payload), &scores))

	require.Equal(t, FlexScore(7), scores.AbilityToImpartKnowledge)
	require.Equal(t, FlexScore(8), scores.Approachable)
	require.Equal(t, FlexScore(0), scores.NecessarySkills)
	require.Equal(t, FlexScore(0), scores.Trained)
	require.Equal(t, FlexScore(0), scores.SelfMotivation)
	require.Equal(t, FlexScore(3), scores.CapacityForLearning)
	require.Equal(t, FlexScore(0), scores.Absence) // absent from payload
	require.Equal(t, 18, scores.Total())
}

func TestRatingScoresTotal(t *testing.T) {
	scores := RatingScores{
		AbilityToImpartKnowledge: 2,
		Approachable:             3,
		NecessarySkills:          4,
		Trained:                  5,
		Absence:                  6,
		SelfMotivation:           7,
		CapacityForLearning:      8,
		Adaptability:             9,
	}
	require.Equal(t, 44, scores.Total())
}

func TestCriteriaNilRating(t *testing.T) {
	var r *Rating
	criteria := r.Criteria()
	require.Len(t, criteria, CriteriaCount)
	for name, v := range criteria {
		require.Zero(t, v, name)
	}
}

func TestCriteriaMapsFields(t *testing.T) {
	r := &Rating{Trained: 9, Absence: 4}
	criteria := r.Criteria()
	require.Equal(t, 9, criteria["trained"])
	require.Equal(t, 4, criteria["absence"])
	require.Equal(t, 0, criteria["approachable"])
}
