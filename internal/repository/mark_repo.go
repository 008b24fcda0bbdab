package repository

import (
	"wakili/internal/models"

	"gorm.io/gorm"
)

type MarkRepository struct {
	db *gorm.DB
}

func NewMarkRepository(db *gorm.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

func (r *MarkRepository) WithTx(tx *gorm.DB) *MarkRepository {
	return &MarkRepository{db: tx}
}

// Add records that actor expressed kind toward owner. Membership is
// checked before insert so repeat calls stay set-like.
func (r *MarkRepository) Add(ownerUserID, actorUserID uint, kind string) error {
	var c int64
	err := r.db.Model(&models.ProfileMark{}).
		Where("owner_user_id = ? AND actor_user_id = ? AND kind = ?", ownerUserID, actorUserID, kind).
		Count(&c).Error
	if err != nil || c > 0 {
		return err
	}
	return r.db.Create(&models.ProfileMark{
		OwnerUserID: ownerUserID,
		ActorUserID: actorUserID,
		Kind:        kind,
	}).Error
}

// Remove hard-deletes the mark so the unique index never blocks a later
// re-add of the same (owner, actor, kind).
func (r *MarkRepository) Remove(ownerUserID, actorUserID uint, kind string) error {
	return r.db.Unscoped().
		Where("owner_user_id = ? AND actor_user_id = ? AND kind = ?", ownerUserID, actorUserID, kind).
		Delete(&models.ProfileMark{}).Error
}

func (r *MarkRepository) Exists(ownerUserID, actorUserID uint, kind string) (bool, error) {
	var c int64
	err := r.db.Model(&models.ProfileMark{}).
		Where("owner_user_id = ? AND actor_user_id = ? AND kind = ?", ownerUserID, actorUserID, kind).
		Count(&c).Error
	return c > 0, err
}

// ActorSummary is one user who marked the owner, resolved for display.
type ActorSummary struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ListActors returns users who expressed kind toward the owner, excluding
// deleted accounts, newest mark first.
func (r *MarkRepository) ListActors(ownerUserID uint, kind string, limit, offset int) ([]ActorSummary, error) {
	var out []ActorSummary
	err := r.db.Table("profile_marks pm").
		Select("u.id AS user_id, u.username, u.role").
		Joins("INNER JOIN users u ON u.id = pm.actor_user_id AND u.deleted_at IS NULL").
		Where("pm.owner_user_id = ? AND pm.kind = ? AND pm.deleted_at IS NULL", ownerUserID, kind).
		Order("pm.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, err
}

func (r *MarkRepository) CountByOwner(ownerUserID uint, kind string) (int64, error) {
	var c int64
	err := r.db.Model(&models.ProfileMark{}).
		Where("owner_user_id = ? AND kind = ?", ownerUserID, kind).
		Count(&c).Error
	return c, err
}
