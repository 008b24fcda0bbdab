package service_test

import (
	"testing"

	"wakili/config"
	"wakili/internal/auth"
	"wakili/internal/domain"
	"wakili/internal/models"
	"wakili/internal/repository"
	"wakili/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*service.AuthService, *config.Config) {
	t.Helper()
	db := setupTestDB(t)
	cfg := config.Load()
	svc := service.NewAuthService(cfg, repository.NewUserRepository(db), repository.NewProfileRepository(db))
	return svc, cfg
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	svc, cfg := newAuthService(t)

	u, access, refresh, err := svc.Register("amina@example.com", "amina", "s3cret", domain.RoleAdvocate, "Amina W.", "Nairobi")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	// fresh accounts start on the free plan with an empty ledger
	assert.Equal(t, domain.PlanFree, u.Plan)
	assert.Equal(t, int64(0), u.Coins)
	assert.True(t, u.IsAdvocate())

	claims, err := auth.ParseAccessToken(&cfg.JWT, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdvocate, claims.Role)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, _, err := svc.Register("amina@example.com", "amina", "s3cret", domain.RoleClient, "", "")
	require.NoError(t, err)

	_, _, _, err = svc.Register("amina@example.com", "other", "s3cret", domain.RoleClient, "", "")
	assert.ErrorIs(t, err, service.ErrEmailExists)

	_, _, _, err = svc.Register("other@example.com", "amina", "s3cret", domain.RoleClient, "", "")
	assert.ErrorIs(t, err, service.ErrUsernameExists)

	_, _, _, err = svc.Register("new@example.com", "new", "s3cret", "SUPERHERO", "", "")
	assert.ErrorIs(t, err, service.ErrInvalidRole)
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	reg, _, _, err := svc.Register("kamau@example.com", "kamau", "s3cret", domain.RoleClient, "", "")
	require.NoError(t, err)

	u, access, _, err := svc.Login("kamau@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	assert.NotEmpty(t, access)

	_, _, _, err = svc.Login("kamau@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCreds)

	_, _, _, err = svc.Login("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, service.ErrInvalidCreds)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, refresh, err := svc.Register("judy@example.com", "judy", "s3cret", domain.RoleLegalProvider, "", "")
	require.NoError(t, err)

	access, next, err := svc.RefreshToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, next)

	_, _, err = svc.RefreshToken("garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, _ := newAuthService(t)

	u, _, _, err := svc.Register("otieno@example.com", "otieno", "s3cret01", domain.RoleClient, "", "")
	require.NoError(t, err)

	err = svc.ChangePassword(u.ID, "wrong", "n3wpass01")
	assert.ErrorIs(t, err, service.ErrInvalidCreds)

	require.NoError(t, svc.ChangePassword(u.ID, "s3cret01", "n3wpass01"))

	_, _, _, err = svc.Login("otieno@example.com", "s3cret01")
	assert.ErrorIs(t, err, service.ErrInvalidCreds)
	_, _, _, err = svc.Login("otieno@example.com", "n3wpass01")
	assert.NoError(t, err)
}

func TestRegisterAssignsRoutingCode(t *testing.T) {
	db := setupTestDB(t)
	cfg := config.Load()
	profiles := repository.NewProfileRepository(db)
	svc := service.NewAuthService(cfg, repository.NewUserRepository(db), profiles)

	u, _, _, err := svc.Register("wanjiku@example.com", "wanjiku", "s3cret", domain.RoleAdvocate, "", "")
	require.NoError(t, err)

	var p models.AdvocateProfile
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&p).Error)
	assert.Regexp(t, `^AD-\d{6}$`, p.RoutingCode)
	assert.Equal(t, "wanjiku", p.DisplayName)

	target, err := profiles.Resolve(domain.RoleLegalProvider, p.RoutingCode)
	require.NoError(t, err)
	assert.Equal(t, u.ID, target.UserID)
}
