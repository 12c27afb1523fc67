package models

import "time"

// User represents a registered member of the site.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(64);not null" validate:"required,min=3,max=64"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(120);not null" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128)"` // bcrypt hash, never the plaintext
	AboutMe      string    `json:"about_me" gorm:"type:varchar(280)" validate:"omitempty,max=280"`
	LastSeen     time.Time `json:"last_seen"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}
