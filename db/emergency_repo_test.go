package db

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terangalabs/alertsn/models"
	"gorm.io/gorm"
)

func TestGetNearbyScansDistanceRows(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewEmergencyRepo(gormDB)

	id := uuid.New()
	now := time.Now()
	username := "moussa"

	rows := sqlmock.NewRows([]string{
		"id", "type", "title", "description", "address", "severity", "status",
		"is_anonymous", "upvotes", "downvotes", "view_count", "created_at",
		"latitude", "longitude", "distance", "username", "profile_picture", "media_count",
	}).AddRow(
		id.String(), models.TypeFire, "Market fire", "spreading fast", "Sandaga", 5, models.StatusActive,
		false, 12, 1, 40, now,
		14.6765, -17.4480, 312.5, username, nil, 2,
	)

	mock.ExpectQuery(`ST_DWithin\(e\.location, ST_SetSRID\(ST_MakePoint\(\$3, \$4\), 4326\)::geography, \$5\)`).
		WillReturnRows(rows)

	result, err := repo.GetNearby(&models.NearbyQuery{
		Latitude:  14.6928,
		Longitude: -17.4467,
		Radius:    5000,
		Status:    models.StatusActive,
		Limit:     50,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)

	got := result[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, models.TypeFire, got.Type)
	assert.InDelta(t, 312.5, got.Distance, 1e-9)
	assert.Equal(t, 14.6765, got.Latitude)
	require.NotNil(t, got.Username)
	assert.Equal(t, username, *got.Username)
	assert.Equal(t, 2, got.MediaCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmergencyByIDNotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewEmergencyRepo(gormDB)

	mock.ExpectQuery(`SELECT e\.id, e\.user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetEmergencyByID(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApplyPatchSetsOnlyGivenColumns(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewEmergencyRepo(gormDB)

	id := uuid.New()
	status := models.StatusInProgress

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "emergencies" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT e\.id, e\.user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(id.String(), status))

	updated, err := repo.ApplyPatch(id, models.EmergencyPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, status, updated.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatchUnknownRowIsNotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewEmergencyRepo(gormDB)

	status := models.StatusResolved

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "emergencies"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := repo.ApplyPatch(uuid.New(), models.EmergencyPatch{Status: &status})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIncrementViewCount(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewEmergencyRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "emergencies" SET "view_count"=view_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.IncrementViewCount(uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
