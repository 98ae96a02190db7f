package models

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the authenticated principal. Credential management (signup,
// password reset) lives in the identity service; this service only reads
// user rows to resolve ownership and notification recipients.
type User struct {
	ID            uint     `json:"id" gorm:"primaryKey"`
	Username      string   `json:"username" gorm:"not null;uniqueIndex;size:100"`
	Email         string   `json:"email" gorm:"not null;uniqueIndex;size:255"`
	FullName      string   `json:"full_name" gorm:"not null;size:200"`
	Role          UserRole `json:"role" gorm:"default:user;index"`
	Qualification *string  `json:"qualification" gorm:"size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
