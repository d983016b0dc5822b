// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// ConnectionStatus represents the state of the relation between two users.
type ConnectionStatus string

const (
	// ConnectionStatusPending indicates an unanswered connection request.
	ConnectionStatusPending ConnectionStatus = "pending"
	// ConnectionStatusConnected indicates a mutually accepted connection.
	ConnectionStatusConnected ConnectionStatus = "connected"
)

// Connection is the single aggregate holding the relation state for one
// pair of users. Keeping the pair in one row makes every protocol
// transition a single-row write, so a pending edge and its mirror can
// never diverge and a connection is symmetric by construction.
type Connection struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	RequesterID uint `gorm:"not null;index" json:"requester_id"`
	AddresseeID uint `gorm:"not null;index" json:"addressee_id"`

	// The unique index lives on the canonical (low, high) ordering of the
	// pair, not on the directed columns. Rows for (A,B) and (B,A) collide
	// on it, so concurrent crossing inserts cannot leave two rows for one
	// pair no matter which side's transaction commits first.
	PairLowID  uint `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`
	PairHighID uint `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`

	Status    ConnectionStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	Requester User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee User `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

// BeforeCreate derives the canonical pair columns from the directed pair.
// The direction itself stays in RequesterID/AddresseeID.
func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	c.PairLowID, c.PairHighID = c.RequesterID, c.AddresseeID
	if c.PairLowID > c.PairHighID {
		c.PairLowID, c.PairHighID = c.PairHighID, c.PairLowID
	}
	return nil
}

// TableName specifies the table name for GORM
func (Connection) TableName() string {
	return "connections"
}

// OtherUserID returns the participant that is not userID.
func (c *Connection) OtherUserID(userID uint) uint {
	if c.RequesterID == userID {
		return c.AddresseeID
	}
	return c.RequesterID
}

// Graph is the per-user projection of the connections table: the three
// ID sets embedded into user payloads.
type Graph struct {
	Connections  []uint `json:"connections"`
	Requests     []uint `json:"requests"`
	SentRequests []uint `json:"sent_requests"`
}
