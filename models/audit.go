package models

import "time"

// AuditLog records who did what to which entity. Written best-effort; a
// failed audit write never fails the request that caused it.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     *uint     `json:"user_id"`
	Action     string    `json:"action" gorm:"type:varchar(100);not null"`
	EntityType string    `json:"entity_type" gorm:"type:varchar(50)"`
	EntityID   string    `json:"entity_id" gorm:"type:varchar(64)"`
	IPAddress  string    `json:"ip_address" gorm:"type:varchar(45)"`
	Metadata   string    `json:"metadata" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Audit actions
const (
	ActionCreateEmergency = "CREATE_EMERGENCY"
	ActionUpdateEmergency = "UPDATE_EMERGENCY"
	ActionDeleteEmergency = "DELETE_EMERGENCY"
	ActionVoteEmergency   = "VOTE_EMERGENCY"
)
