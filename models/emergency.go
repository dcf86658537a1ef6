package models

import (
	"time"

	"github.com/google/uuid"
)

// Emergency types
const (
	TypeAccident   = "accident"
	TypeFire       = "fire"
	TypeMedical    = "medical"
	TypeFlood      = "flood"
	TypeSecurity   = "security"
	TypeEarthquake = "earthquake"
	TypeOther      = "other"
)

// Emergency statuses
const (
	StatusActive     = "active"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusFalseAlarm = "false_alarm"
)

// EmergencyTypes lists every accepted report type.
var EmergencyTypes = []string{
	TypeAccident, TypeFire, TypeMedical, TypeFlood,
	TypeSecurity, TypeEarthquake, TypeOther,
}

func ValidEmergencyType(t string) bool {
	for _, v := range EmergencyTypes {
		if v == t {
			return true
		}
	}
	return false
}

func ValidEmergencyStatus(s string) bool {
	switch s {
	case StatusActive, StatusInProgress, StatusResolved, StatusFalseAlarm:
		return true
	}
	return false
}

// Emergency is a citizen-reported incident pinned to a geographic point.
// UserID is nil for anonymous reports; ownership is then untracked.
type Emergency struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID      *uint      `json:"user_id" gorm:"index"`
	Type        string     `json:"type" gorm:"type:varchar(20);not null"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Location    GeoPoint   `json:"location" gorm:"not null"`
	Address     string     `json:"address" gorm:"type:varchar(500)"`
	Severity    int        `json:"severity" gorm:"default:3"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'active';index:idx_emergencies_status_created,priority:1"`
	IsAnonymous bool       `json:"is_anonymous" gorm:"default:false"`
	Upvotes     int        `json:"upvotes" gorm:"default:0"`
	Downvotes   int        `json:"downvotes" gorm:"default:0"`
	ViewCount   int        `json:"view_count" gorm:"default:0"`
	ResponderID *uint      `json:"responder_id"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index:idx_emergencies_status_created,priority:2,sort:desc"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EmergencyPatch names every attribute PATCH may touch. The lifecycle
// manager decides which fields a given actor is allowed to set; the repo
// only ever applies non-nil fields, so column names never come from input.
type EmergencyPatch struct {
	Status      *string
	Description *string
	ResponderID *uint
	ResolvedAt  *time.Time
}

func (p EmergencyPatch) Empty() bool {
	return p.Status == nil && p.Description == nil && p.ResponderID == nil && p.ResolvedAt == nil
}

// EmergencyWithDistance is a nearby-query row: the public projection of an
// emergency annotated with its great-circle distance from the query center.
type EmergencyWithDistance struct {
	ID             uuid.UUID `json:"id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Address        string    `json:"address"`
	Severity       int       `json:"severity"`
	Status         string    `json:"status"`
	IsAnonymous    bool      `json:"is_anonymous"`
	Upvotes        int       `json:"upvotes"`
	Downvotes      int       `json:"downvotes"`
	ViewCount      int       `json:"view_count"`
	CreatedAt      time.Time `json:"created_at"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Distance       float64   `json:"distance"`
	Username       *string   `json:"username,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	MediaCount     int       `json:"media_count"`
}

// EmergencyDetail is the single-report projection with reporter and
// responder display info joined in.
type EmergencyDetail struct {
	ID                uuid.UUID        `json:"id"`
	Type              string           `json:"type"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Address           string           `json:"address"`
	Severity          int              `json:"severity"`
	Status            string           `json:"status"`
	IsAnonymous       bool             `json:"is_anonymous"`
	Upvotes           int              `json:"upvotes"`
	Downvotes         int              `json:"downvotes"`
	ViewCount         int              `json:"view_count"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	ResolvedAt        *time.Time       `json:"resolved_at"`
	Latitude          float64          `json:"latitude"`
	Longitude         float64          `json:"longitude"`
	UserID            *uint            `json:"user_id"`
	Username          *string          `json:"username,omitempty"`
	ProfilePicture    *string          `json:"profile_picture,omitempty"`
	PhoneNumber       *string          `json:"phone_number,omitempty"`
	ResponderID       *uint            `json:"responder_id"`
	ResponderUsername *string          `json:"responder_username,omitempty"`
	Media             []EmergencyMedia `json:"media" gorm:"-"`
}

// CreateEmergencyRequest is the POST /emergencies body.
type CreateEmergencyRequest struct {
	Type        string  `json:"type" binding:"required"`
	Title       string  `json:"title" binding:"required,max=255" conform:"trim"`
	Description string  `json:"description" conform:"trim"`
	Latitude    float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" binding:"min=-180,max=180"`
	Address     string  `json:"address" conform:"trim"`
	Severity    int     `json:"severity"`
	IsAnonymous bool    `json:"is_anonymous"`
}

// UpdateEmergencyRequest is the PATCH /emergencies/:id body.
type UpdateEmergencyRequest struct {
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

// NearbyQuery holds the validated parameters of a nearby search.
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	Radius    float64
	Type      string
	Status    string
	Limit     int
	Offset    int
}

// NearbyResult is the page returned by the proximity engine.
type NearbyResult struct {
	Emergencies []EmergencyWithDistance `json:"emergencies"`
	Results     int                     `json:"results"`
	Cached      bool                    `json:"cached"`
}

// TypeStat is an aggregate row of the stats query grouped by type.
type TypeStat struct {
	Type        string  `json:"type"`
	Count       int     `json:"count"`
	AvgSeverity float64 `json:"avg_severity"`
}

// StatusStat is an aggregate row of the stats query grouped by status.
type StatusStat struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatsQuery optionally narrows stats to a radius around a point.
type StatsQuery struct {
	Latitude  *float64
	Longitude *float64
	Radius    float64
}

// StatsResult groups emergency aggregates for the admin dashboard.
type StatsResult struct {
	ByType   []TypeStat   `json:"by_type"`
	ByStatus []StatusStat `json:"by_status"`
}
