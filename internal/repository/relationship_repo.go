package repository

import (
	"errors"
	"time"

	"wakili/internal/domain"
	"wakili/internal/models"

	"gorm.io/gorm"
)

type RelationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

func (r *RelationshipRepository) WithTx(tx *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: tx}
}

// GetByPair returns the single row for the unordered pair, or nil when no
// interaction ever happened. The sorted key makes (A,B) and (B,A) hit the
// same row.
func (r *RelationshipRepository) GetByPair(a, b uint) (*models.Relationship, error) {
	u1, u2 := models.SortPair(a, b)
	var rel models.Relationship
	err := r.db.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// Upsert overwrites the pair's state, creating the row lazily on first
// interaction. Returns the persisted row.
func (r *RelationshipRepository) Upsert(a, b, requesterID uint, state string, at time.Time) (*models.Relationship, error) {
	rel, err := r.GetByPair(a, b)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		u1, u2 := models.SortPair(a, b)
		rel = &models.Relationship{
			User1ID:            u1,
			User2ID:            u2,
			RequesterID:        requesterID,
			State:              state,
			LastStateUpdatedAt: at,
		}
		return rel, r.db.Create(rel).Error
	}
	rel.RequesterID = requesterID
	rel.State = state
	rel.LastStateUpdatedAt = at
	return rel, r.db.Model(rel).Updates(map[string]interface{}{
		"requester_id":          requesterID,
		"state":                 state,
		"last_state_updated_at": at,
	}).Error
}

// ListByState returns every relationship involving the user in the given
// state (e.g. ACCEPTED for connections, BLOCKED for the block list).
func (r *RelationshipRepository) ListByState(userID uint, state string) ([]models.Relationship, error) {
	var list []models.Relationship
	err := r.db.Where("(user1_id = ? OR user2_id = ?) AND state = ?", userID, userID, state).
		Order("last_state_updated_at DESC").Find(&list).Error
	return list, err
}

// CountBlockedBy counts pairs the user blocked (requester is the blocker).
func (r *RelationshipRepository) CountBlockedBy(userID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Relationship{}).
		Where("(user1_id = ? OR user2_id = ?) AND state = ? AND requester_id = ?",
			userID, userID, domain.StateBlocked, userID).
		Count(&c).Error
	return c, err
}
