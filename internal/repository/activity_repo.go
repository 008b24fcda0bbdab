package repository

import (
	"errors"
	"time"

	"wakili/internal/models"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) WithTx(tx *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: tx}
}

// Append writes a new entry unless an identical (sender, receiver, type)
// entry landed within the suppression window. This is a best-effort
// debounce against client retries, not a strong dedup guarantee: the
// check-then-insert runs inside the pair-serialized transaction, so only
// cross-pair races could slip through, and those never share a key.
// Returns false when the write was suppressed.
func (r *ActivityRepository) Append(a *models.Activity, window time.Duration) (bool, error) {
	if window > 0 {
		var c int64
		cutoff := time.Now().Add(-window)
		err := r.db.Model(&models.Activity{}).
			Where("sender_id = ? AND receiver_id = ? AND type = ? AND created_at > ?",
				a.SenderID, a.ReceiverID, a.Type, cutoff).
			Count(&c).Error
		if err != nil {
			return false, err
		}
		if c > 0 {
			return false, nil
		}
	}
	return true, r.db.Create(a).Error
}

func (r *ActivityRepository) GetByID(id uint) (*models.Activity, error) {
	var a models.Activity
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// HasEntry reports whether the actor ever recorded an entry of the given
// type against the target.
func (r *ActivityRepository) HasEntry(senderID, receiverID uint, types ...string) (bool, error) {
	var c int64
	err := r.db.Model(&models.Activity{}).
		Where("sender_id = ? AND receiver_id = ? AND type IN ?", senderID, receiverID, types).
		Count(&c).Error
	return c > 0, err
}

// LatestEntry returns the newest entry of the given type from sender to
// receiver, or nil when none exists.
func (r *ActivityRepository) LatestEntry(senderID, receiverID uint, types ...string) (*models.Activity, error) {
	var a models.Activity
	err := r.db.Where("sender_id = ? AND receiver_id = ? AND type IN ?", senderID, receiverID, types).
		Order("created_at DESC").First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DistinctTypes returns the distinct entry types recorded from sender to
// receiver, limited to the given set. Feeds the interaction diversity cap.
func (r *ActivityRepository) DistinctTypes(senderID, receiverID uint, within []string) ([]string, error) {
	var types []string
	err := r.db.Model(&models.Activity{}).
		Where("sender_id = ? AND receiver_id = ? AND type IN ?", senderID, receiverID, within).
		Distinct("type").Pluck("type", &types).Error
	return types, err
}

// UpdateStatusForPair flips Status on every entry of the given types
// between the two users, in either direction. This is the only in-place
// mutation the activity log permits; the synchronizer calls it when a
// pair resolves to accepted or declined.
func (r *ActivityRepository) UpdateStatusForPair(a, b uint, status string, types ...string) error {
	return r.db.Model(&models.Activity{}).
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND type IN ?",
			a, b, b, a, types).
		Update("status", status).Error
}

// UpdateStatus sets the status of a single entry.
func (r *ActivityRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Activity{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateMetadata replaces the metadata payload of a single entry.
func (r *ActivityRepository) UpdateMetadata(id uint, metadata string) error {
	return r.db.Model(&models.Activity{}).Where("id = ?", id).Update("metadata", metadata).Error
}

// ListForUser returns entries where the user is sender or receiver, newest
// first.
func (r *ActivityRepository) ListForUser(userID uint, limit, offset int) ([]models.Activity, error) {
	var list []models.Activity
	err := r.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ActivityRepository) CountBySender(userID uint, types ...string) (int64, error) {
	var c int64
	q := r.db.Model(&models.Activity{}).Where("sender_id = ?", userID)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	err := q.Count(&c).Error
	return c, err
}

func (r *ActivityRepository) CountByReceiver(userID uint, types ...string) (int64, error) {
	var c int64
	q := r.db.Model(&models.Activity{}).Where("receiver_id = ?", userID)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	err := q.Count(&c).Error
	return c, err
}

// CountReceivedByStatus counts entries toward the user of the given types
// carrying the given status (e.g. accepted interests).
func (r *ActivityRepository) CountReceivedByStatus(userID uint, status string, types ...string) (int64, error) {
	var c int64
	err := r.db.Model(&models.Activity{}).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ? AND type IN ?", userID, userID, status, types).
		Count(&c).Error
	return c, err
}
