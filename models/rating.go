// models/rating.go - Rating entity and score input coercion
package models

import (
	"strconv"
	"strings"
	"time"
)

// CriteriaCount is the number of sub-scores in every rating submission.
const CriteriaCount = 8

// Rating is one timestamped submission of the eight sub-scores for a team
// member. TotalScore and AvgScore are computed once at creation and never
// recomputed; the row is immutable until evicted or cascaded away.
type Rating struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	TeamMemberID uint        `json:"team_member_id" gorm:"not null;index"`
	TeamMember   *TeamMember `json:"-" gorm:"foreignKey:TeamMemberID"`
	Timestamp    time.Time   `json:"timestamp" gorm:"not null;index"`

	AbilityToImpartKnowledge int `json:"ability_to_impart_knowledge" gorm:"not null"`
	Approachable             int `json:"approachable" gorm:"not null"`
	NecessarySkills          int `json:"necessary_skills" gorm:"not null"`
	Trained                  int `json:"trained" gorm:"not null"`
	Absence                  int `json:"absence" gorm:"not null"`
	SelfMotivation           int `json:"self_motivation" gorm:"not null"`
	CapacityForLearning      int `json:"capacity_for_learning" gorm:"not null"`
	Adaptability             int `json:"adaptability" gorm:"not null"`

	TotalScore int     `json:"total_score" gorm:"not null"`
	AvgScore   float64 `json:"avg_score" gorm:"not null"`
}

func (Rating) TableName() string {
	return "ratings"
}

// Criteria returns the sub-scores keyed by their wire names, in the shape
// the evaluation screens render.
func (r *Rating) Criteria() map[string]int {
	if r == nil {
		return map[string]int{
			"ability_to_impart_knowledge": 0,
			"approachable":                0,
			"necessary_skills":            0,
			"trained":                     0,
			"absence":                     0,
			"self_motivation":             0,
			"capacity_for_learning":       0,
			"adaptability":                0,
		}
	}
	return map[string]int{
		"ability_to_impart_knowledge": r.AbilityToImpartKnowledge,
		"approachable":                r.Approachable,
		"necessary_skills":            r.NecessarySkills,
		"trained":                     r.Trained,
		"absence":                     r.Absence,
		"self_motivation":             r.SelfMotivation,
		"capacity_for_learning":       r.CapacityForLearning,
		"adaptability":                r.Adaptability,
	}
}

// FlexScore is an integer sub-score decoded leniently from form input:
// numbers and numeric strings are accepted, and absent, null, or malformed
// values coerce to zero instead of failing the submission.
type FlexScore int

func (f *FlexScore) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexScore(n)
	return nil
}

// RatingScores is the submission payload for the eight criteria.
type RatingScores struct {
	AbilityToImpartKnowledge FlexScore `json:"ability_to_impart_knowledge"`
	Approachable             FlexScore `json:"approachable"`
	NecessarySkills          FlexScore `json:"necessary_skills"`
	Trained                  FlexScore `json:"trained"`
	Absence                  FlexScore `json:"absence"`
	SelfMotivation           FlexScore `json:"self_motivation"`
	CapacityForLearning      FlexScore `json:"capacity_for_learning"`
	Adaptability             FlexScore `json:"adaptability"`
}

// Total returns the sum of the eight sub-scores.
func (s RatingScores) Total() int {
	return int(s.AbilityToImpartKnowledge) + int(s.Approachable) +
		int(s.NecessarySkills) + int(s.Trained) + int(s.Absence) +
		int(s.SelfMotivation) + int(s.CapacityForLearning) + int(s.Adaptability)
}
