package services

import (
	"context"
	"testing"
	"time"

	"raterware/models"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	reply   string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func TestBuildPromptSkipsZeroRatings(t *testing.T) {
	member := &models.TeamMember{FirstName: "Jane", Surname: "Doe"}
	history := []models.Rating{
		{TotalScore: 0, Timestamp: time.Now()},
		{TotalScore: 40, AvgScore: 5, Trained: 5, Timestamp: time.Now()},
	}

	prompt, ok := BuildPrompt(member, history)
	require.True(t, ok)
	require.Contains(t, prompt, "Jane Doe")
	require.Contains(t, prompt, "Total Score: 40")
	require.NotContains(t, prompt, "Total Score: 0")
}

func TestBuildPromptNoUsableRatings(t *testing.T) {
	member := &models.TeamMember{FirstName: "Jane", Surname: "Doe"}

	_, ok := BuildPrompt(member, nil)
	require.False(t, ok)

	_, ok = BuildPrompt(member, []models.Rating{{TotalScore: 0}})
	require.False(t, ok)
}

func TestSplitRecommendation(t *testing.T) {
	rec, pred := SplitRecommendation("Do more training.\n\nFuture Prediction:\nSteady growth expected.")
	require.Equal(t, "Do more training.", rec)
	require.Equal(t, "Steady growth expected.", pred)

	rec, pred = SplitRecommendation("Just the advice.")
	require.Equal(t, "Just the advice.", rec)
	require.Equal(t, "No prediction available.", pred)

	_, pred = SplitRecommendation("Advice.\nFuture Prediction:   ")
	require.Equal(t, "No prediction available.", pred)
}

func TestForMember(t *testing.T) {
	db := newTestDB(t)
	ratings := NewRatingService(db)
	client, _, member := seedMember(t, db)

	chat := &fakeChat{reply: "Keep coaching.\nFuture Prediction:\nImprovement likely."}
	svc := NewRecommendationService(ratings, chat)

	// No ratings yet
	_, err := svc.ForMember(context.Background(), client.ID, member.ID)
	require.ErrorIs(t, err, ErrNoRatings)

	_, err = ratings.SubmitRating(client.ID, member.ID, uniformScores(6))
	require.NoError(t, err)

	rec, err := svc.ForMember(context.Background(), client.ID, member.ID)
	require.NoError(t, err)
	require.Equal(t, "Keep coaching.", rec.Recommendation)
	require.Equal(t, "Improvement likely.", rec.FuturePrediction)

	require.Len(t, chat.lastReq.Messages, 2)
	require.Equal(t, openai.ChatMessageRoleSystem, chat.lastReq.Messages[0].Role)

	// Tenant check still applies
	other := &models.Client{Name: "Rival", Email: "rival@rival.test"}
	require.NoError(t, db.Create(other).Error)
	_, err = svc.ForMember(context.Background(), other.ID, member.ID)
	require.ErrorIs(t, err, ErrMemberNotFound)
}
