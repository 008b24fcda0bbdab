package repository_test

import (
	"testing"
	"time"

	"wakili/internal/domain"
	"wakili/internal/models"
	"wakili/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByPairOrderIndependent(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRelationshipRepository(db)

	rel, err := repo.GetByPair(1, 2)
	require.NoError(t, err)
	assert.Nil(t, rel)

	_, err = repo.Upsert(2, 1, 2, domain.StateInterest, time.Now())
	require.NoError(t, err)

	a, err := repo.GetByPair(1, 2)
	require.NoError(t, err)
	require.NotNil(t, a)
	b, err := repo.GetByPair(2, 1)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, uint(1), a.User1ID)
	assert.Equal(t, uint(2), a.User2ID)
	assert.Equal(t, uint(2), a.RequesterID)
}

func TestUpsertOverwritesSingleRow(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRelationshipRepository(db)

	_, err := repo.Upsert(1, 2, 1, domain.StateInterest, time.Now())
	require.NoError(t, err)
	_, err = repo.Upsert(2, 1, 2, domain.StateAccepted, time.Now())
	require.NoError(t, err)

	var count int64
	db.Model(&models.Relationship{}).Count(&count)
	assert.Equal(t, int64(1), count)

	rel, err := repo.GetByPair(1, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAccepted, rel.State)
	assert.Equal(t, uint(2), rel.RequesterID)
}

func TestCountBlockedBy(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRelationshipRepository(db)

	// user 1 blocked 2; user 3 blocked 1
	_, err := repo.Upsert(1, 2, 1, domain.StateBlocked, time.Now())
	require.NoError(t, err)
	_, err = repo.Upsert(1, 3, 3, domain.StateBlocked, time.Now())
	require.NoError(t, err)

	c, err := repo.CountBlockedBy(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c)

	list, err := repo.ListByState(1, domain.StateBlocked)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
