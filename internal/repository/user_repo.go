package repository

import (
	"errors"

	"wakili/internal/domain"
	"wakili/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient coin balance")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// Debit spends coins from the user's balance and bumps the monotonic
// CoinsUsed counter. Must run inside the per-request transaction.
func (r *UserRepository) Debit(userID uint, amount int64) error {
	if amount == 0 {
		return nil
	}
	var u models.User
	if err := r.db.First(&u, userID).Error; err != nil {
		return err
	}
	if u.Coins < amount {
		return ErrInsufficientBalance
	}
	u.Coins -= amount
	u.CoinsUsed += amount
	return r.db.Model(&u).Updates(map[string]interface{}{
		"coins":      u.Coins,
		"coins_used": u.CoinsUsed,
	}).Error
}

// Credit adds coins and bumps CoinsReceived. Used by the payment
// verification path; crediting a free-plan user is refused because the
// Free plan forces a zero balance.
func (r *UserRepository) Credit(userID uint, amount int64) error {
	var u models.User
	if err := r.db.First(&u, userID).Error; err != nil {
		return err
	}
	if u.OnFreePlan() {
		return errors.New("cannot credit coins on the free plan")
	}
	u.Coins += amount
	u.CoinsReceived += amount
	return r.db.Model(&u).Updates(map[string]interface{}{
		"coins":          u.Coins,
		"coins_received": u.CoinsReceived,
	}).Error
}

// SetPlan switches the user's plan. Downgrading to Free zeroes the
// balance and clears the premium flag; the monotonic counters keep their
// values for auditing.
func (r *UserRepository) SetPlan(userID uint, plan string) error {
	var u models.User
	if err := r.db.First(&u, userID).Error; err != nil {
		return err
	}
	u.Plan = plan
	if plan == domain.PlanFree {
		u.Coins = 0
		u.IsPremium = false
	} else {
		u.IsPremium = true
	}
	return r.db.Model(&u).Updates(map[string]interface{}{
		"plan":       u.Plan,
		"coins":      u.Coins,
		"is_premium": u.IsPremium,
	}).Error
}
