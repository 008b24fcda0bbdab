package models

import (
	"time"

	"wakili/internal/domain"

	"gorm.io/gorm"
)

// User carries identity plus the coin ledger. Coins, CoinsUsed and
// CoinsReceived are mutated only by the economy gate (debit) and the
// payment-verification path (credit); CoinsUsed/CoinsReceived never
// decrease.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email         string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	Role          string         `gorm:"size:20;not null;index" json:"role"` // CLIENT | ADVOCATE | LEGAL_PROVIDER
	Plan          string         `gorm:"size:20;not null;default:'Free'" json:"plan"`
	IsPremium     bool           `gorm:"not null;default:false" json:"is_premium"`
	Coins         int64          `gorm:"not null;default:0" json:"coins"`
	CoinsUsed     int64          `gorm:"not null;default:0" json:"coins_used"`
	CoinsReceived int64          `gorm:"not null;default:0" json:"coins_received"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	AdvocateProfile *AdvocateProfile `gorm:"foreignKey:UserID" json:"advocate_profile,omitempty"`
	ClientProfile   *ClientProfile   `gorm:"foreignKey:UserID" json:"client_profile,omitempty"`
}

func (u *User) IsAdvocate() bool { return u.Role == domain.RoleAdvocate || u.Role == domain.RoleLegalProvider }
func (u *User) IsClient() bool   { return u.Role == domain.RoleClient }

// OnFreePlan reports whether the user is on the free plan. A free plan
// forces coins to zero and IsPremium to false.
func (u *User) OnFreePlan() bool { return u.Plan == domain.PlanFree || u.Plan == "" }
