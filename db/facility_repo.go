package db

import (
	"github.com/pkg/errors"
	"github.com/terangalabs/alertsn/models"
	"gorm.io/gorm"
)

// FacilityRepository serves the read-mostly facility reference data.
type FacilityRepository interface {
	GetNearby(lat, lng, radius float64, facilityType string, limit, offset int) ([]models.FacilityWithDistance, error)
	SaveFacility(f *models.Facility) error
}

type facilityRepo struct {
	DB *gorm.DB
}

func NewFacilityRepo(db *GormDB) FacilityRepository {
	return &facilityRepo{db.DB}
}

func (r *facilityRepo) GetNearby(lat, lng, radius float64, facilityType string, limit, offset int) ([]models.FacilityWithDistance, error) {
	query := `
	SELECT
		f.id, f.name, f.type, f.address, f.phone_number,
		ST_Y(f.location::geometry) AS latitude,
		ST_X(f.location::geometry) AS longitude,
		ST_Distance(f.location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) AS distance
	FROM facilities f
	WHERE ST_DWithin(f.location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)
	AND f.is_active = TRUE`

	args := []interface{}{lng, lat, lng, lat, radius}

	if facilityType != "" {
		query += ` AND f.type = ?`
		args = append(args, facilityType)
	}

	query += ` ORDER BY distance ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	facilities := []models.FacilityWithDistance{}
	if err := r.DB.Raw(query, args...).Scan(&facilities).Error; err != nil {
		return nil, errors.Wrap(err, "nearby facilities")
	}
	return facilities, nil
}

func (r *facilityRepo) SaveFacility(f *models.Facility) error {
	return r.DB.Create(f).Error
}
