package models

import "time"

// Post is a single status update. Posts are immutable once created;
// CreatedAt is the feed sort key.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Body      string    `json:"body" gorm:"type:varchar(140);not null"`
	Language  string    `json:"language,omitempty" gorm:"type:varchar(8)"` // BCP-47 tag, empty when unknown
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	User      User      `json:"author" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
