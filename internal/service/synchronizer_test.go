package service_test

import (
	"testing"

	"wakili/internal/domain"
	"wakili/internal/models"
	"wakili/internal/repository"
	"wakili/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyInterestThenAccept(t *testing.T) {
	db := setupTestDB(t)
	sync := service.NewSynchronizer()
	rels := repository.NewRelationshipRepository(db)
	acts := repository.NewActivityRepository(db)

	a := seedUser(t, db, domain.RoleClient, domain.PlanFree, 0)
	b := seedUser(t, db, domain.RoleAdvocate, domain.PlanFree, 0)
	entry := seedActivity(t, db, a.ID, b.ID, domain.ActionInterest, domain.ActivityPending)

	tr, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionInterest)
	require.NoError(t, err)
	assert.True(t, tr.Changed)
	assert.Equal(t, domain.StateInterest, tr.State)

	// the receiver accepts; the pending entry flips to accepted
	tr, err = sync.Apply(rels, acts, b.ID, a.ID, domain.ActionAccept)
	require.NoError(t, err)
	assert.True(t, tr.Changed)
	assert.Equal(t, domain.StateAccepted, tr.State)

	var got models.Activity
	require.NoError(t, db.First(&got, entry.ID).Error)
	assert.Equal(t, domain.ActivityAccepted, got.Status)

	// accepting again is a no-op, not an error
	tr, err = sync.Apply(rels, acts, b.ID, a.ID, domain.ActionAccept)
	require.NoError(t, err)
	assert.False(t, tr.Changed)
	assert.Equal(t, domain.StateAccepted, tr.State)
}

func TestApplyAcceptBySenderRejected(t *testing.T) {
	db := setupTestDB(t)
	sync := service.NewSynchronizer()
	rels := repository.NewRelationshipRepository(db)
	acts := repository.NewActivityRepository(db)

	a := seedUser(t, db, domain.RoleClient, domain.PlanFree, 0)
	b := seedUser(t, db, domain.RoleAdvocate, domain.PlanFree, 0)

	_, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionInterest)
	require.NoError(t, err)

	_, err = sync.Apply(rels, acts, a.ID, b.ID, domain.ActionAccept)
	assert.ErrorIs(t, err, domain.ErrNotReceiver)
}

func TestApplyDeclineFlipsBothDirections(t *testing.T) {
	db := setupTestDB(t)
	sync := service.NewSynchronizer()
	rels := repository.NewRelationshipRepository(db)
	acts := repository.NewActivityRepository(db)

	a := seedUser(t, db, domain.RoleClient, domain.PlanFree, 0)
	b := seedUser(t, db, domain.RoleAdvocate, domain.PlanFree, 0)
	sent := seedActivity(t, db, a.ID, b.ID, domain.ActionInterest, domain.ActivityPending)
	back := seedActivity(t, db, b.ID, a.ID, domain.ActionSuperInterest, domain.ActivityPending)
	other := seedActivity(t, db, a.ID, b.ID, domain.ActionChat, domain.ActivityNone)

	_, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionInterest)
	require.NoError(t, err)
	tr, err := sync.Apply(rels, acts, b.ID, a.ID, domain.ActionDecline)
	require.NoError(t, err)
	assert.Equal(t, domain.StateDeclined, tr.State)

	var got models.Activity
	require.NoError(t, db.First(&got, sent.ID).Error)
	assert.Equal(t, domain.ActivityDeclined, got.Status)
	got = models.Activity{}
	require.NoError(t, db.First(&got, back.ID).Error)
	assert.Equal(t, domain.ActivityDeclined, got.Status)
	// non-request entries keep their status
	got = models.Activity{}
	require.NoError(t, db.First(&got, other.ID).Error)
	assert.Equal(t, domain.ActivityNone, got.Status)
}

func TestApplyBlockGuardsPair(t *testing.T) {
	db := setupTestDB(t)
	sync := service.NewSynchronizer()
	rels := repository.NewRelationshipRepository(db)
	acts := repository.NewActivityRepository(db)

	a := seedUser(t, db, domain.RoleClient, domain.PlanFree, 0)
	b := seedUser(t, db, domain.RoleAdvocate, domain.PlanFree, 0)

	tr, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionBlock)
	require.NoError(t, err)
	assert.Equal(t, domain.StateBlocked, tr.State)

	// nothing moves on a blocked pair
	_, err = sync.Apply(rels, acts, b.ID, a.ID, domain.ActionInterest)
	assert.ErrorIs(t, err, service.ErrBlocked)

	// only the blocker can lift it
	_, err = sync.Apply(rels, acts, b.ID, a.ID, domain.ActionUnblock)
	assert.ErrorIs(t, err, service.ErrBlocked)

	tr, err = sync.Apply(rels, acts, a.ID, b.ID, domain.ActionUnblock)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, tr.State)
}

func TestApplyShortlistNeverDowngrades(t *testing.T) {
	db := setupTestDB(t)
	sync := service.NewSynchronizer()
	rels := repository.NewRelationshipRepository(db)
	acts := repository.NewActivityRepository(db)

	a := seedUser(t, db, domain.RoleClient, domain.PlanFree, 0)
	b := seedUser(t, db, domain.RoleAdvocate, domain.PlanFree, 0)

	_, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionInterest)
	require.NoError(t, err)
	_, err = sync.Apply(rels, acts, b.ID, a.ID, domain.ActionAccept)
	require.NoError(t, err)

	tr, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionShortlist)
	require.NoError(t, err)
	assert.False(t, tr.Changed)
	assert.Equal(t, domain.StateAccepted, tr.State)
}

func TestApplyShortlistRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	sync := service.NewSynchronizer()
	rels := repository.NewRelationshipRepository(db)
	acts := repository.NewActivityRepository(db)

	a := seedUser(t, db, domain.RoleClient, domain.PlanFree, 0)
	b := seedUser(t, db, domain.RoleAdvocate, domain.PlanFree, 0)

	tr, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionShortlist)
	require.NoError(t, err)
	assert.Equal(t, domain.StateShortlisted, tr.State)

	tr, err = sync.Apply(rels, acts, a.ID, b.ID, domain.ActionRemoveShortlist)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, tr.State)
}

func TestApplyWithdrawBySenderOnly(t *testing.T) {
	db := setupTestDB(t)
	sync := service.NewSynchronizer()
	rels := repository.NewRelationshipRepository(db)
	acts := repository.NewActivityRepository(db)

	a := seedUser(t, db, domain.RoleClient, domain.PlanFree, 0)
	b := seedUser(t, db, domain.RoleAdvocate, domain.PlanFree, 0)

	_, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionInterest)
	require.NoError(t, err)

	tr, err := sync.Apply(rels, acts, b.ID, a.ID, domain.ActionWithdraw)
	require.NoError(t, err)
	assert.False(t, tr.Changed)

	tr, err = sync.Apply(rels, acts, a.ID, b.ID, domain.ActionWithdraw)
	require.NoError(t, err)
	assert.True(t, tr.Changed)
	assert.Equal(t, domain.StateNone, tr.State)
}

func TestApplyChatPromotesAcceptedToConnected(t *testing.T) {
	db := setupTestDB(t)
	sync := service.NewSynchronizer()
	rels := repository.NewRelationshipRepository(db)
	acts := repository.NewActivityRepository(db)

	a := seedUser(t, db, domain.RoleClient, domain.PlanFree, 0)
	b := seedUser(t, db, domain.RoleAdvocate, domain.PlanFree, 0)

	_, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionInterest)
	require.NoError(t, err)
	_, err = sync.Apply(rels, acts, b.ID, a.ID, domain.ActionAccept)
	require.NoError(t, err)

	tr, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionChat)
	require.NoError(t, err)
	assert.True(t, tr.Changed)
	assert.Equal(t, domain.StateConnected, tr.State)

	// a second chat stays connected
	tr, err = sync.Apply(rels, acts, b.ID, a.ID, domain.ActionChat)
	require.NoError(t, err)
	assert.False(t, tr.Changed)
}

func TestApplyViewContactLeavesStateAlone(t *testing.T) {
	db := setupTestDB(t)
	sync := service.NewSynchronizer()
	rels := repository.NewRelationshipRepository(db)
	acts := repository.NewActivityRepository(db)

	a := seedUser(t, db, domain.RoleClient, domain.PlanFree, 0)
	b := seedUser(t, db, domain.RoleAdvocate, domain.PlanFree, 0)

	tr, err := sync.Apply(rels, acts, a.ID, b.ID, domain.ActionViewContact)
	require.NoError(t, err)
	assert.False(t, tr.Changed)
	assert.Equal(t, domain.StateNone, tr.State)

	rel, err := rels.GetByPair(a.ID, b.ID)
	require.NoError(t, err)
	assert.Nil(t, rel)
}

func TestViewStateProjection(t *testing.T) {
	cases := []struct {
		state       string
		requesterID uint
		viewerID    uint
		want        string
	}{
		{domain.StateInterest, 1, 1, domain.ViewInterestSent},
		{domain.StateInterest, 1, 2, domain.ViewInterestReceived},
		{domain.StateSuperInterest, 1, 1, domain.ViewSuperInterestSent},
		{domain.StateSuperInterest, 1, 2, domain.ViewSuperInterestReceived},
		{domain.StateShortlisted, 1, 1, domain.ViewShortlistedThem},
		{domain.StateShortlisted, 1, 2, domain.ViewShortlistedBy},
		{domain.StateBlocked, 1, 1, domain.ViewBlockedThem},
		{domain.StateBlocked, 1, 2, domain.ViewBlockedBy},
		{domain.StateAccepted, 1, 2, domain.StateAccepted},
		{domain.StateConnected, 1, 1, domain.StateConnected},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, service.ViewState(c.state, c.requesterID, c.viewerID))
	}
}
