package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Every medication, doctor and reminder
// belongs to exactly one user.
type User struct {
	ID           uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string       `gorm:"uniqueIndex;size:80;not null" json:"username"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	Email        string       `gorm:"size:255;not null" json:"email"`
	Medications  []Medication `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Doctors      []Doctor     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reminders    []Reminder   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook is called before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	return nil
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "user"
}

// RegisterRequest represents the data needed to create a new account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest represents the data needed for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
