package models

import (
	"time"

	"gorm.io/gorm"
)

// AdvocateProfile is the public profile for advocates and legal providers
// (the two role names alias the same table). RoutingCode is the short
// public identifier used in profile links, resolvable alongside the
// numeric id.
type AdvocateProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName string         `gorm:"size:128;not null" json:"display_name"`
	RoutingCode string         `gorm:"uniqueIndex;size:32;not null" json:"routing_code"`
	Speciality  string         `gorm:"size:128" json:"speciality"`
	City        string         `gorm:"size:64" json:"city"`
	Bio         string         `gorm:"type:text" json:"bio"`
	ContactInfo string         `gorm:"size:255" json:"-"` // revealed only via contact unlock
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (AdvocateProfile) TableName() string { return "advocate_profiles" }

type ClientProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName string         `gorm:"size:128;not null" json:"display_name"`
	RoutingCode string         `gorm:"uniqueIndex;size:32;not null" json:"routing_code"`
	City        string         `gorm:"size:64" json:"city"`
	ContactInfo string         `gorm:"size:255" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ClientProfile) TableName() string { return "client_profiles" }
