package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terangalabs/alertsn/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*GormDB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return &GormDB{DB: gormDB}, mock
}

func expectCounterRead(mock sqlmock.Sqlmock, upvotes, downvotes int) {
	mock.ExpectQuery(`SELECT "upvotes","downvotes" FROM "emergencies" WHERE id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"upvotes", "downvotes"}).AddRow(upvotes, downvotes))
}

func TestCastVoteRecordsFirstVote(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewVoteRepo(gormDB)

	emergencyID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "emergencies" WHERE id = .+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(emergencyID.String()))
	mock.ExpectQuery(`SELECT \* FROM "votes" WHERE emergency_id = .+ AND user_id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "emergency_id", "user_id", "vote_type"}))
	mock.ExpectQuery(`INSERT INTO "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "emergencies" SET "upvotes"=upvotes \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectCounterRead(mock, 1, 0)
	mock.ExpectCommit()

	result, err := repo.CastVote(emergencyID, 7, models.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, models.VoteRecorded, result.Outcome)
	assert.Equal(t, 1, result.Upvotes)
	assert.Equal(t, 0, result.Downvotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVoteRemovesRepeatedVote(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewVoteRepo(gormDB)

	emergencyID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "emergencies" WHERE id = .+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(emergencyID.String()))
	mock.ExpectQuery(`SELECT \* FROM "votes" WHERE emergency_id = .+ AND user_id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "emergency_id", "user_id", "vote_type"}).
			AddRow(3, emergencyID.String(), 7, models.VoteDownvote))
	mock.ExpectExec(`DELETE FROM "votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "emergencies" SET "downvotes"=downvotes \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectCounterRead(mock, 0, 0)
	mock.ExpectCommit()

	result, err := repo.CastVote(emergencyID, 7, models.VoteDownvote)
	require.NoError(t, err)
	assert.Equal(t, models.VoteRemoved, result.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Switching a downvote to an upvote must decrement downvotes and increment
// upvotes. The ordered expectations pin the decrement to the OLD counter
// column; moving the new counter twice would leave the ledger and the
// denormalized counts out of step.
func TestCastVoteSwitchesVote(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewVoteRepo(gormDB)

	emergencyID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "emergencies" WHERE id = .+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(emergencyID.String()))
	mock.ExpectQuery(`SELECT \* FROM "votes" WHERE emergency_id = .+ AND user_id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "emergency_id", "user_id", "vote_type"}).
			AddRow(3, emergencyID.String(), 7, models.VoteDownvote))
	mock.ExpectExec(`UPDATE "votes" SET "vote_type"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "emergencies" SET "downvotes"=downvotes \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "emergencies" SET "upvotes"=upvotes \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectCounterRead(mock, 1, 0)
	mock.ExpectCommit()

	result, err := repo.CastVote(emergencyID, 7, models.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, models.VoteUpdated, result.Outcome)
	assert.Equal(t, 1, result.Upvotes)
	assert.Equal(t, 0, result.Downvotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountVotesReadsLedger(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewVoteRepo(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "votes" WHERE emergency_id = .+ AND vote_type = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountVotes(uuid.New(), models.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}

func TestCastVoteUnknownEmergencyRollsBack(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewVoteRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "emergencies" WHERE id = .+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.CastVote(uuid.New(), 7, models.VoteUpvote)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
