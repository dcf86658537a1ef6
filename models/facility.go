package models

// Facility types
const (
	FacilityHospital      = "hospital"
	FacilityPoliceStation = "police_station"
	FacilityFireStation   = "fire_station"
	FacilityShelter       = "shelter"
	FacilityPharmacy      = "pharmacy"
	FacilityOther         = "other"
)

// FacilityTypes lists every accepted facility type.
var FacilityTypes = []string{
	FacilityHospital, FacilityPoliceStation, FacilityFireStation,
	FacilityShelter, FacilityPharmacy, FacilityOther,
}

func ValidFacilityType(t string) bool {
	for _, v := range FacilityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Facility is read-mostly reference data (hospitals, police and fire
// stations) indexed the same way emergencies are.
type Facility struct {
	Model
	Name        string   `json:"name" gorm:"type:varchar(255);not null"`
	Type        string   `json:"type" gorm:"type:varchar(30);not null"`
	Location    GeoPoint `json:"location" gorm:"not null"`
	Address     string   `json:"address" gorm:"type:varchar(500)"`
	PhoneNumber string   `json:"phone_number" gorm:"type:varchar(20)"`
	IsActive    bool     `json:"is_active" gorm:"default:true"`
}

// FacilityWithDistance is a nearby-facilities row.
type FacilityWithDistance struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phone_number"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Distance    float64 `json:"distance"`
}
