package service

import (
	"errors"
	"fmt"
	"strings"

	"wakili/config"
	"wakili/internal/auth"
	"wakili/internal/domain"
	"wakili/internal/models"
	"wakili/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrInvalidRole    = errors.New("invalid role")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
	profiles *repository.ProfileRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, profiles *repository.ProfileRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, profiles: profiles}
}

// Register creates the user with a zero ledger on the free plan plus the
// role-appropriate profile.
func (s *AuthService) Register(email, username, password, role, displayName, city string) (*models.User, string, string, error) {
	switch role {
	case domain.RoleClient, domain.RoleAdvocate, domain.RoleLegalProvider:
	default:
		return nil, "", "", ErrInvalidRole
	}
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	_, err = s.userRepo.GetByUsername(username)
	if err == nil {
		return nil, "", "", ErrUsernameExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Plan:         domain.PlanFree,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	if displayName == "" {
		displayName = username
	}
	routingCode := routingCodeFor(role, u.ID)
	if role == domain.RoleClient {
		err = s.profiles.CreateClient(&models.ClientProfile{
			UserID: u.ID, DisplayName: displayName, RoutingCode: routingCode, City: city,
		})
	} else {
		err = s.profiles.CreateAdvocate(&models.AdvocateProfile{
			UserID: u.ID, DisplayName: displayName, RoutingCode: routingCode, City: city,
		})
	}
	if err != nil {
		return nil, "", "", err
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, "", "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) RefreshToken(refreshToken string) (access, refresh string, err error) {
	token, err := jwt.ParseWithClaims(refreshToken, &jwt.RegisteredClaims{}, func(_ *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.RefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", auth.ErrInvalidToken
	}
	claims := token.Claims.(*jwt.RegisteredClaims)
	var userID uint
	fmt.Sscanf(claims.Subject, "%d", &userID)
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", "", err
	}
	access, _ = auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	refresh, _ = auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return access, refresh, nil
}

// ChangePassword verifies the current password before swapping in the
// new hash.
func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.userRepo.Update(u)
}

func routingCodeFor(role string, userID uint) string {
	prefix := "CL"
	if role != domain.RoleClient {
		prefix = "AD"
	}
	return fmt.Sprintf("%s-%06d", strings.ToUpper(prefix), userID)
}
