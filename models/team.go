// models/team.go
package models

import "time"

type Team struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"not null;size:100"`
	ClientID  uint         `json:"client_id" gorm:"not null;index"`
	Client    *Client      `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	UserID    *uint        `json:"user_id" gorm:"index"` // managing user, optional
	User      *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Members   []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}
