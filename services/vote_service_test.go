package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terangalabs/alertsn/cache"
	"github.com/terangalabs/alertsn/models"
	"gorm.io/gorm"
)

type fakeVoteRepo struct {
	result   *models.VoteResult
	err      error
	lastType string
	lastUser uint
}

func (f *fakeVoteRepo) CastVote(emergencyID uuid.UUID, userID uint, voteType string) (*models.VoteResult, error) {
	f.lastType = voteType
	f.lastUser = userID
	return f.result, f.err
}

func (f *fakeVoteRepo) CountVotes(emergencyID uuid.UUID, voteType string) (int64, error) {
	return 0, nil
}

func TestCastVoteReturnsLedgerCountersAndInvalidates(t *testing.T) {
	emergencyRepo := newFakeEmergencyRepo()
	voteRepo := &fakeVoteRepo{result: &models.VoteResult{
		Outcome: models.VoteRecorded, Upvotes: 6, Downvotes: 2,
	}}
	c := newFakeCache()
	svc := NewVoteService(voteRepo, emergencyRepo, c)

	emergencyID := uuid.New()
	result, errr := svc.CastVote(context.Background(), citizen(7), emergencyID, models.VoteUpvote, "10.0.0.1")
	require.Nil(t, errr)

	// counters come from the ledger transaction itself, no extra read
	assert.Equal(t, models.VoteRecorded, result.Outcome)
	assert.Equal(t, 6, result.Upvotes)
	assert.Equal(t, 2, result.Downvotes)
	assert.Equal(t, uint(7), voteRepo.lastUser)
	assert.Contains(t, c.invalidated, cache.ScopeNearby)

	require.Len(t, emergencyRepo.audits, 1)
	assert.Equal(t, models.ActionVoteEmergency, emergencyRepo.audits[0].Action)
	assert.Equal(t, models.VoteUpvote, emergencyRepo.audits[0].Metadata)
}

func TestCastVoteRejectsUnknownType(t *testing.T) {
	svc := NewVoteService(&fakeVoteRepo{}, newFakeEmergencyRepo(), newFakeCache())

	_, errr := svc.CastVote(context.Background(), citizen(1), uuid.New(), "sideways", "")
	require.NotNil(t, errr)
	assert.Equal(t, 400, errr.Status)
}

func TestCastVoteUnknownEmergency(t *testing.T) {
	voteRepo := &fakeVoteRepo{err: gorm.ErrRecordNotFound}
	c := newFakeCache()
	svc := NewVoteService(voteRepo, newFakeEmergencyRepo(), c)

	_, errr := svc.CastVote(context.Background(), citizen(1), uuid.New(), models.VoteDownvote, "")
	require.NotNil(t, errr)
	assert.Equal(t, 404, errr.Status)
	assert.Empty(t, c.invalidated)
}
