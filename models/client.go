// models/client.go
package models

import "time"

// Tier is a client's subscription level, gated by the Stripe webhook.
type Tier int

const (
	TierFree Tier = iota
	TierBasic
	TierProfessional
	TierEnterprise
)

func (t Tier) String() string {
	switch t {
	case TierBasic:
		return "basic"
	case TierProfessional:
		return "professional"
	case TierEnterprise:
		return "enterprise"
	default:
		return "free"
	}
}

// TierLimits describes the feature limits for a tier. -1 means unlimited.
type TierLimits struct {
	MaxTeams          int  `json:"max_teams"`
	MaxMembersPerTeam int  `json:"max_members_per_team"`
	AIRecommendations bool `json:"ai_recommendations"`
}

// Limits returns the feature limits for the tier.
func (t Tier) Limits() TierLimits {
	switch t {
	case TierBasic:
		return TierLimits{MaxTeams: 3, MaxMembersPerTeam: 15}
	case TierProfessional:
		return TierLimits{MaxTeams: 10, MaxMembersPerTeam: 50, AIRecommendations: true}
	case TierEnterprise:
		return TierLimits{MaxTeams: -1, MaxMembersPerTeam: -1, AIRecommendations: true}
	default:
		return TierLimits{MaxTeams: 1, MaxMembersPerTeam: 5}
	}
}

// Client is an isolated tenant account. Email links the client to its
// Stripe customer.
type Client struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:80"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:120"`
	Tier      Tier      `json:"tier" gorm:"default:0"`
	IsAdmin   bool      `json:"is_admin" gorm:"default:false"`
	IsBlocked bool      `json:"is_blocked" gorm:"default:false"`
	Users     []User    `json:"users,omitempty" gorm:"foreignKey:ClientID"`
	Teams     []Team    `json:"teams,omitempty" gorm:"foreignKey:ClientID"`
	Settings  *Settings `json:"settings,omitempty" gorm:"foreignKey:ClientID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}
