// models/user.go
package models

import "time"

// User is a logged-in account belonging to a client, distinct from the
// TeamMember individuals being rated.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:80"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:120"`
	Password  string    `json:"-" gorm:"size:128"`
	IsAdmin   bool      `json:"is_admin" gorm:"default:false"`
	ClientID  uint      `json:"client_id" gorm:"not null;index"`
	Client    *Client   `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Teams     []Team    `json:"teams,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}
