package repository_test

import (
	"testing"

	"wakili/internal/domain"
	"wakili/internal/models"
	"wakili/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebitTracksBalanceAndUsage(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)
	u := seedUser(t, db, domain.PlanPremium, 5)

	require.NoError(t, repo.Debit(u.ID, 3))

	got, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Coins)
	assert.Equal(t, int64(3), got.CoinsUsed)

	// overdraw is refused and leaves the ledger alone
	err = repo.Debit(u.ID, 3)
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

	got, err = repo.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Coins)
	assert.Equal(t, int64(3), got.CoinsUsed)
}

func TestCreditRefusedOnFreePlan(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	free := seedUser(t, db, domain.PlanFree, 0)
	assert.Error(t, repo.Credit(free.ID, 10))

	paid := seedUser(t, db, domain.PlanPremium, 0)
	require.NoError(t, repo.Credit(paid.ID, 10))
	got, err := repo.GetByID(paid.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Coins)
	assert.Equal(t, int64(10), got.CoinsReceived)
}

func TestSetPlanDowngradeZeroesBalance(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)
	u := seedUser(t, db, domain.PlanPremium, 7)

	require.NoError(t, repo.SetPlan(u.ID, domain.PlanFree))

	got, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Coins)
	assert.False(t, got.IsPremium)
	assert.True(t, got.OnFreePlan())

	require.NoError(t, repo.SetPlan(u.ID, domain.PlanElite))
	got, err = repo.GetByID(u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPremium)
}

func TestMarkSetSemantics(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewMarkRepository(db)

	// repeat adds stay a single set member
	require.NoError(t, repo.Add(2, 1, domain.MarkShortlist))
	require.NoError(t, repo.Add(2, 1, domain.MarkShortlist))
	var count int64
	db.Model(&models.ProfileMark{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// remove then re-add works despite the unique index
	require.NoError(t, repo.Remove(2, 1, domain.MarkShortlist))
	exists, err := repo.Exists(2, 1, domain.MarkShortlist)
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, repo.Add(2, 1, domain.MarkShortlist))
	exists, err = repo.Exists(2, 1, domain.MarkShortlist)
	require.NoError(t, err)
	assert.True(t, exists)
}
