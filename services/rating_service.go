// services/rating_service.go - Rating Ledger Business Logic
//
// Owns the append/evict lifecycle of rating records: composite score
// computation on submission and the bounded FIFO history per team member.
package services

import (
	"errors"
	"time"

	"raterware/models"

	"gorm.io/gorm"
)

// HistoryWindow is the maximum number of ratings retained per team member.
// Once a submission pushes the count past the window, the oldest surplus
// rows are evicted.
const HistoryWindow = 24

// HistoryChartLimit is the conventional history depth for trend charts.
const HistoryChartLimit = 12

type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// MemberForClient resolves a team member and verifies it belongs to the
// caller's client. Every ledger operation goes through this check before
// touching rating rows.
func (s *RatingService) MemberForClient(clientID, memberID uint) (*models.TeamMember, error) {
	var member models.TeamMember
	err := s.db.
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.id = ? AND teams.client_id = ?", memberID, clientID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// SubmitRating records one rating submission for a member and enforces the
// retention window. The ownership check runs before any write; a member
// outside the caller's tenant produces no stored row.
func (s *RatingService) SubmitRating(clientID, memberID uint, scores models.RatingScores) (*models.Rating, error) {
	if _, err := s.MemberForClient(clientID, memberID); err != nil {
		return nil, err
	}

	total := scores.Total()
	rating := &models.Rating{
		TeamMemberID:             memberID,
		Timestamp:                time.Now().UTC(),
		AbilityToImpartKnowledge: int(scores.AbilityToImpartKnowledge),
		Approachable:             int(scores.Approachable),
		NecessarySkills:          int(scores.NecessarySkills),
		Trained:                  int(scores.Trained),
		Absence:                  int(scores.Absence),
		SelfMotivation:           int(scores.SelfMotivation),
		CapacityForLearning:      int(scores.CapacityForLearning),
		Adaptability:             int(scores.Adaptability),
		TotalScore:               total,
		AvgScore:                 float64(total) / float64(models.CriteriaCount),
	}

	if err := s.db.Create(rating).Error; err != nil {
		return nil, err
	}

	// Keep only the last HistoryWindow ratings (FIFO). A failed trim after
	// a successful insert leaves a transient over-count that the next
	// submission corrects.
	if err := s.trimHistory(memberID); err != nil {
		return nil, err
	}

	return rating, nil
}

// trimHistory re-derives the member's full ordered history and deletes the
// oldest surplus rows. Read-all-then-trim on every call keeps the policy
// tolerant of interleaved submissions: at worst the window is briefly
// exceeded until the next trim observes it.
func (s *RatingService) trimHistory(memberID uint) error {
	var ratings []models.Rating
	if err := s.db.Where("team_member_id = ?", memberID).
		Order("timestamp ASC, id ASC").
		Find(&ratings).Error; err != nil {
		return err
	}

	if len(ratings) <= HistoryWindow {
		return nil
	}

	surplus := ratings[:len(ratings)-HistoryWindow]
	ids := make([]uint, len(surplus))
	for i, r := range surplus {
		ids[i] = r.ID
	}

	return s.db.Delete(&models.Rating{}, ids).Error
}

// GetLatestRating returns the member's most recent rating, or nil when the
// member has never been rated. The empty case is not an error; display
// layers zero-fill it.
func (s *RatingService) GetLatestRating(clientID, memberID uint) (*models.Rating, error) {
	if _, err := s.MemberForClient(clientID, memberID); err != nil {
		return nil, err
	}

	var rating models.Rating
	err := s.db.Where("team_member_id = ?", memberID).
		Order("timestamp DESC, id DESC").
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetHistory returns up to limit ratings for the member, newest first.
// The limit is a query-time cap; storage itself never holds more than
// HistoryWindow rows per member.
func (s *RatingService) GetHistory(clientID, memberID uint, limit int) ([]models.Rating, error) {
	if _, err := s.MemberForClient(clientID, memberID); err != nil {
		return nil, err
	}

	query := s.db.Where("team_member_id = ?", memberID).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ratings []models.Rating
	err := query.Find(&ratings).Error
	return ratings, err
}

// ScoreSummary is a member's current standing: the latest rating's
// composite scores, not an average across history.
type ScoreSummary struct {
	TotalScore int     `json:"total_score"`
	AvgScore   float64 `json:"avg_score"`
}

// Aggregate returns the member's current standing. A member with no
// ratings aggregates to zeros.
func (s *RatingService) Aggregate(clientID, memberID uint) (ScoreSummary, error) {
	latest, err := s.GetLatestRating(clientID, memberID)
	if err != nil {
		return ScoreSummary{}, err
	}
	if latest == nil {
		return ScoreSummary{}, nil
	}
	return ScoreSummary{TotalScore: latest.TotalScore, AvgScore: latest.AvgScore}, nil
}

// HistoryAverage returns the mean of total_score across the member's
// retained history. This is deliberately distinct from Rating.AvgScore,
// which is the per-submission average over the eight criteria.
func (s *RatingService) HistoryAverage(clientID, memberID uint) (float64, error) {
	ratings, err := s.GetHistory(clientID, memberID, 0)
	if err != nil {
		return 0, err
	}
	if len(ratings) == 0 {
		return 0, nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r.TotalScore
	}
	return float64(sum) / float64(len(ratings)), nil
}

// LastSubmission describes the most recent rating across a whole team.
type LastSubmission struct {
	MemberName string    `json:"member_name"`
	Date       time.Time `json:"date"`
}

// GetLastSubmission returns the newest rating submitted for any member of
// the team, or nil when the team has no ratings yet.
func (s *RatingService) GetLastSubmission(clientID, teamID uint) (*LastSubmission, error) {
	var team models.Team
	err := s.db.Where("id = ? AND client_id = ?", teamID, clientID).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	var rating models.Rating
	err = s.db.
		Joins("JOIN team_members ON team_members.id = ratings.team_member_id").
		Where("team_members.team_id = ?", teamID).
		Order("ratings.timestamp DESC, ratings.id DESC").
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var member models.TeamMember
	if err := s.db.First(&member, rating.TeamMemberID).Error; err != nil {
		return nil, err
	}

	return &LastSubmission{
		MemberName: member.FirstName + " " + member.Surname,
		Date:       rating.Timestamp,
	}, nil
}
