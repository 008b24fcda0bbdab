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

func TestAppendSuppressesRetriesInWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewActivityRepository(db)
	window := 10 * time.Second

	written, err := repo.Append(&models.Activity{SenderID: 1, ReceiverID: 2, Type: domain.ActionInterest}, window)
	require.NoError(t, err)
	assert.True(t, written)

	// identical retry inside the window is dropped
	written, err = repo.Append(&models.Activity{SenderID: 1, ReceiverID: 2, Type: domain.ActionInterest}, window)
	require.NoError(t, err)
	assert.False(t, written)

	// a different type or the reverse direction is a fresh entry
	written, err = repo.Append(&models.Activity{SenderID: 1, ReceiverID: 2, Type: domain.ActionChat}, window)
	require.NoError(t, err)
	assert.True(t, written)
	written, err = repo.Append(&models.Activity{SenderID: 2, ReceiverID: 1, Type: domain.ActionInterest}, window)
	require.NoError(t, err)
	assert.True(t, written)

	var count int64
	db.Model(&models.Activity{}).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestAppendAllowsAfterWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewActivityRepository(db)

	a := &models.Activity{SenderID: 1, ReceiverID: 2, Type: domain.ActionChat}
	written, err := repo.Append(a, 10*time.Second)
	require.NoError(t, err)
	require.True(t, written)

	old := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(a).Update("created_at", old).Error)

	written, err = repo.Append(&models.Activity{SenderID: 1, ReceiverID: 2, Type: domain.ActionChat}, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestUpdateStatusForPair(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewActivityRepository(db)

	sent := &models.Activity{SenderID: 1, ReceiverID: 2, Type: domain.ActionInterest, Status: domain.ActivityPending}
	back := &models.Activity{SenderID: 2, ReceiverID: 1, Type: domain.ActionSuperInterest, Status: domain.ActivityPending}
	chat := &models.Activity{SenderID: 1, ReceiverID: 2, Type: domain.ActionChat, Status: domain.ActivityNone}
	stranger := &models.Activity{SenderID: 1, ReceiverID: 3, Type: domain.ActionInterest, Status: domain.ActivityPending}
	for _, a := range []*models.Activity{sent, back, chat, stranger} {
		require.NoError(t, db.Create(a).Error)
	}

	err := repo.UpdateStatusForPair(1, 2, domain.ActivityAccepted, domain.ActionInterest, domain.ActionSuperInterest)
	require.NoError(t, err)

	var got models.Activity
	require.NoError(t, db.First(&got, sent.ID).Error)
	assert.Equal(t, domain.ActivityAccepted, got.Status)
	got = models.Activity{}
	require.NoError(t, db.First(&got, back.ID).Error)
	assert.Equal(t, domain.ActivityAccepted, got.Status)
	got = models.Activity{}
	require.NoError(t, db.First(&got, chat.ID).Error)
	assert.Equal(t, domain.ActivityNone, got.Status)
	got = models.Activity{}
	require.NoError(t, db.First(&got, stranger.ID).Error)
	assert.Equal(t, domain.ActivityPending, got.Status)
}

func TestDistinctTypesAndLatest(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewActivityRepository(db)

	for _, typ := range []string{domain.ActionInterest, domain.ActionChat, domain.ActionChat} {
		require.NoError(t, db.Create(&models.Activity{SenderID: 1, ReceiverID: 2, Type: typ}).Error)
	}

	types, err := repo.DistinctTypes(1, 2, []string{domain.ActionInterest, domain.ActionChat, domain.ActionViewContact})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{domain.ActionInterest, domain.ActionChat}, types)

	latest, err := repo.LatestEntry(1, 2, domain.ActionChat)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, domain.ActionChat, latest.Type)

	latest, err = repo.LatestEntry(1, 2, domain.ActionViewContact)
	require.NoError(t, err)
	assert.Nil(t, latest)
}
