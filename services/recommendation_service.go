// services/recommendation_service.go - AI Performance Recommendations
package services

import (
	"context"
	"fmt"
	"strings"

	"raterware/models"

	openai "github.com/sashabaranov/go-openai"
)

// chatCompleter is the slice of the OpenAI client the service uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Recommendation is the advisor output split into its two sections.
type Recommendation struct {
	Recommendation   string `json:"recommendation"`
	FuturePrediction string `json:"future_prediction"`
}

type RecommendationService struct {
	ratings *RatingService
	chat    chatCompleter
	model   string
}

func NewRecommendationService(ratings *RatingService, chat chatCompleter) *RecommendationService {
	return &RecommendationService{
		ratings: ratings,
		chat:    chat,
		model:   openai.GPT4,
	}
}

// ForMember builds a trend summary for the member's recent history. Only
// ratings with a positive total score are fed to the model; an all-zero
// submission carries no signal.
func (s *RecommendationService) ForMember(ctx context.Context, clientID, memberID uint) (*Recommendation, error) {
	member, err := s.ratings.MemberForClient(clientID, memberID)
	if err != nil {
		return nil, err
	}

	history, err := s.ratings.GetHistory(clientID, memberID, HistoryWindow)
	if err != nil {
		return nil, err
	}

	prompt, ok := BuildPrompt(member, history)
	if !ok {
		return nil, ErrNoRatings
	}

	resp, err := s.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are an expert HR advisor."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	rec, prediction := SplitRecommendation(resp.Choices[0].Message.Content)
	return &Recommendation{Recommendation: rec, FuturePrediction: prediction}, nil
}

// BuildPrompt renders the advisor prompt with the member's rating history
// as a textual table. It reports false when no usable rating exists.
func BuildPrompt(member *models.TeamMember, history []models.Rating) (string, bool) {
	var rows []models.Rating
	for _, r := range history {
		if r.TotalScore > 0 {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, `As an expert HR advisor, evaluate the following performance data for the member %s %s and provide a structured recommendation. The evaluation should help the team manager make better decisions based on your analysis.

Introduction:
Briefly introduce the context of the evaluation.

Summary of Recent Performance:
Highlight key performance trends over the last 12 ratings, mentioning any significant improvements or declines in performance.

Detailed Evaluation by Criteria:
Analyze each criterion individually, mentioning notable scores and trends. Provide insights on strengths and weaknesses.

Overall Performance Analysis:
Provide an aggregate view of the performance, considering all criteria. Comment on the overall trajectory of the performance.

Recommendations:
Provide actionable recommendations based on the analysis. Suggest specific areas for improvement and potential steps to address them.

Conclusion:
Summarize the key points and the next steps.

Future Prediction:
Based on the current performance trends, predict the potential future behavior of the member over the next few months.

Performance Data:
`, member.FirstName, member.Surname)

	for _, r := range rows {
		fmt.Fprintf(&b, "Date: %s, ", r.Timestamp.Format("2006-01-02T15:04:05"))
		fmt.Fprintf(&b, "Ability to Impart Knowledge: %d, ", r.AbilityToImpartKnowledge)
		fmt.Fprintf(&b, "Approachable: %d, ", r.Approachable)
		fmt.Fprintf(&b, "Necessary Skills: %d, ", r.NecessarySkills)
		fmt.Fprintf(&b, "Trained: %d, ", r.Trained)
		fmt.Fprintf(&b, "Absence: %d, ", r.Absence)
		fmt.Fprintf(&b, "Self Motivation: %d, ", r.SelfMotivation)
		fmt.Fprintf(&b, "Capacity for Learning: %d, ", r.CapacityForLearning)
		fmt.Fprintf(&b, "Adaptability: %d, ", r.Adaptability)
		fmt.Fprintf(&b, "Total Score: %d, ", r.TotalScore)
		fmt.Fprintf(&b, "Average Score: %g\n", r.AvgScore)
	}

	return b.String(), true
}

// SplitRecommendation separates the advisor text from the trailing future
// prediction section.
func SplitRecommendation(content string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(content), "Future Prediction:", 2)
	recommendation := strings.TrimSpace(parts[0])
	prediction := "No prediction available."
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		prediction = strings.TrimSpace(parts[1])
	}
	return recommendation, prediction
}
