package models

import (
	"time"

	"gorm.io/gorm"
)

// ProfileMark is one "who expressed X toward me" row: the queryable
// surface behind interests/superInterests/shortlists on a profile,
// independent of relationship and activity state. The composite unique
// index makes each mark a set member.
type ProfileMark struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerUserID uint           `gorm:"not null;index:idx_mark_owner_actor_kind,unique" json:"owner_user_id"`
	ActorUserID uint           `gorm:"not null;index:idx_mark_owner_actor_kind,unique" json:"actor_user_id"`
	Kind        string         `gorm:"size:20;not null;index:idx_mark_owner_actor_kind,unique" json:"kind"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerUserID" json:"-"`
	Actor User `gorm:"foreignKey:ActorUserID" json:"-"`
}

func (ProfileMark) TableName() string { return "profile_marks" }
