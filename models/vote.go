package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote types
const (
	VoteUpvote   = "upvote"
	VoteDownvote = "downvote"
)

// Vote outcomes reported by the ledger
const (
	VoteRecorded = "Vote recorded"
	VoteUpdated  = "Vote updated"
	VoteRemoved  = "Vote removed"
)

// Vote is the ledger row behind the denormalized counters on Emergency.
// The unique index makes one vote per (emergency, user) a hard constraint.
type Vote struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EmergencyID uuid.UUID `json:"emergency_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_emergency_user"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_votes_emergency_user"`
	VoteType    string    `json:"vote_type" gorm:"type:varchar(10);not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// VoteRequest is the POST /emergencies/:id/vote body.
type VoteRequest struct {
	VoteType string `json:"vote_type" binding:"required,oneof=upvote downvote"`
}

// VoteResult is the outcome of a cast vote plus the counters after it.
type VoteResult struct {
	Outcome   string `json:"outcome"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}
