package repository

import (
	"strconv"

	"wakili/internal/domain"
	"wakili/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

func (r *ProfileRepository) CreateAdvocate(p *models.AdvocateProfile) error {
	return r.db.Create(p).Error
}

func (r *ProfileRepository) CreateClient(p *models.ClientProfile) error {
	return r.db.Create(p).Error
}

func (r *ProfileRepository) GetAdvocateByUserID(userID uint) (*models.AdvocateProfile, error) {
	var p models.AdvocateProfile
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetClientByUserID(userID uint) (*models.ClientProfile, error) {
	var p models.ClientProfile
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Target is a resolved interaction target: the owning user plus display
// info, independent of which profile table it came from.
type Target struct {
	UserID      uint
	ProfileID   uint
	DisplayName string
	Role        string
}

// Resolve maps a role string and a profile reference (numeric id or
// routing code) to the owning user. Advocate and legal-provider are
// aliases for the same table; client resolves against client profiles.
func (r *ProfileRepository) Resolve(role, ref string) (*Target, error) {
	switch role {
	case domain.RoleClient:
		var p models.ClientProfile
		if err := r.findByRef(&p, ref); err != nil {
			return nil, err
		}
		return &Target{UserID: p.UserID, ProfileID: p.ID, DisplayName: p.DisplayName, Role: domain.RoleClient}, nil
	case domain.RoleAdvocate, domain.RoleLegalProvider:
		var p models.AdvocateProfile
		if err := r.findByRef(&p, ref); err != nil {
			return nil, err
		}
		return &Target{UserID: p.UserID, ProfileID: p.ID, DisplayName: p.DisplayName, Role: domain.RoleAdvocate}, nil
	default:
		return nil, gorm.ErrRecordNotFound
	}
}

func (r *ProfileRepository) findByRef(dest interface{}, ref string) error {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		if err := r.db.Where("id = ?", uint(id)).First(dest).Error; err == nil {
			return nil
		}
	}
	return r.db.Where("routing_code = ?", ref).First(dest).Error
}
