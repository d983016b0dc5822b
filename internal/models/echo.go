// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Echo represents a published voice note.
type Echo struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	// Author display snapshot, denormalized at publish time so feed
	// entries survive later profile renames.
	AuthorName  string         `json:"name"`
	AuthorEmail string         `json:"email"`
	Title       string         `gorm:"not null" json:"title"`
	Content     string         `gorm:"type:text" json:"text"`
	AudioURL    string         `gorm:"type:text;not null" json:"audio_url"`
	Duration    string         `gorm:"default:'0:00'" json:"duration"`
	Category    string         `gorm:"default:'General';index" json:"category"`
	ImageURL    string         `json:"image_url"`
	VideoURL    string         `json:"video_url"`
	Likes       int            `gorm:"not null;default:0" json:"likes"`
	Comments    []Comment      `gorm:"foreignKey:EchoID" json:"comments"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (Echo) TableName() string {
	return "echoes"
}

// Comment is a reply attached to an echo. Comments are append-only and
// are only ever addressed through their parent echo.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	EchoID    uint      `gorm:"not null;index" json:"-"`
	Author    string    `json:"user"`
	Body      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"time"`
}
