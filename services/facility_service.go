package services

import (
	"log"
	"net/http"

	"github.com/terangalabs/alertsn/db"
	apiError "github.com/terangalabs/alertsn/errors"
	"github.com/terangalabs/alertsn/models"
)

// FacilityService interface
type FacilityService interface {
	GetNearbyFacilities(lat, lng, radius float64, facilityType string, limit, offset int) ([]models.FacilityWithDistance, *apiError.Error)
}

type facilityService struct {
	facilityRepo db.FacilityRepository
}

// NewFacilityService instantiates a FacilityService
func NewFacilityService(facilityRepo db.FacilityRepository) FacilityService {
	return &facilityService{facilityRepo: facilityRepo}
}

func (s *facilityService) GetNearbyFacilities(lat, lng, radius float64, facilityType string, limit, offset int) ([]models.FacilityWithDistance, *apiError.Error) {
	if !models.ValidCoordinates(lat, lng) {
		return nil, apiError.New("invalid coordinates", http.StatusBadRequest)
	}
	if facilityType != "" && !models.ValidFacilityType(facilityType) {
		return nil, apiError.New("invalid facility type", http.StatusBadRequest)
	}
	facilities, err := s.facilityRepo.GetNearby(lat, lng, radius, facilityType, limit, offset)
	if err != nil {
		log.Printf("GetNearbyFacilities error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return facilities, nil
}
