// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a member of the Vybe Echo network.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `gorm:"unique;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	Bio        string         `json:"bio"`
	Headline   string         `json:"headline"`
	ProfilePic string         `json:"profile_pic"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Social graph views, computed from the connections table at query
	// time. Never persisted as columns.
	Connections  []uint `gorm:"-" json:"connections,omitempty"`
	Requests     []uint `gorm:"-" json:"requests,omitempty"`
	SentRequests []uint `gorm:"-" json:"sent_requests,omitempty"`

	Echoes []Echo `gorm:"foreignKey:UserID" json:"echoes,omitempty"`
}
