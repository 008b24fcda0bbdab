package models

import (
	"time"

	"gorm.io/gorm"
)

// Relationship holds the single current state between two users. Exactly
// one row exists per unordered pair: User1ID < User2ID always, enforced by
// SortPair plus the unique composite index. Transitions overwrite; rows
// are never hard-deleted.
type Relationship struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	User1ID            uint           `gorm:"not null;index:idx_rel_pair,unique" json:"user1_id"`
	User2ID            uint           `gorm:"not null;index:idx_rel_pair,unique" json:"user2_id"`
	RequesterID        uint           `gorm:"not null" json:"requester_id"` // who caused the last transition
	State              string         `gorm:"size:20;not null;default:'NONE'" json:"state"`
	LastStateUpdatedAt time.Time      `json:"last_state_updated_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Relationship) TableName() string { return "relationships" }

// Other returns the counterpart of userID in the pair.
func (r *Relationship) Other(userID uint) uint {
	if r.User1ID == userID {
		return r.User2ID
	}
	return r.User1ID
}

// SortPair orders two user ids into the canonical (low, high) pair key.
func SortPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
