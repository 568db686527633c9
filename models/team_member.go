// models/team_member.go
package models

import "time"

// TeamMember is a rated individual. Deleting a member cascades its ratings.
type TeamMember struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FirstName  string    `json:"first_name" gorm:"not null;size:100"`
	Surname    string    `json:"surname" gorm:"not null;size:100"`
	EmployerID string    `json:"employer_id" gorm:"not null;size:100"`
	TeamID     uint      `json:"team_id" gorm:"not null;index"`
	Team       *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Ratings    []Rating  `json:"ratings,omitempty" gorm:"foreignKey:TeamMemberID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
