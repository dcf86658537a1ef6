package models

import (
	"time"

	"github.com/google/uuid"
)

// EmergencyMedia is metadata for a photo/video/audio attached to a report.
// Upload and storage happen elsewhere; the core only counts and lists rows.
type EmergencyMedia struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EmergencyID  uuid.UUID `json:"emergency_id" gorm:"type:uuid;not null;index"`
	MediaType    string    `json:"media_type" gorm:"type:varchar(20);not null"`
	URL          string    `json:"url" gorm:"type:varchar(500);not null"`
	ThumbnailURL string    `json:"thumbnail_url" gorm:"type:varchar(500)"`
	FileSize     int64     `json:"file_size"`
	Duration     int       `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
}
