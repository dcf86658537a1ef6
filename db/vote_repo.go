package db

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/terangalabs/alertsn/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository is the vote ledger. CastVote is the single write path for
// votes and the denormalized counters, so the two can never drift apart.
type VoteRepository interface {
	CastVote(emergencyID uuid.UUID, userID uint, voteType string) (*models.VoteResult, error)
	CountVotes(emergencyID uuid.UUID, voteType string) (int64, error)
}

type voteRepo struct {
	DB *gorm.DB
}

func NewVoteRepo(db *GormDB) VoteRepository {
	return &voteRepo{db.DB}
}

// CastVote runs one transaction covering the whole check-then-write:
// the emergency row is locked FOR UPDATE so concurrent votes on the same
// report serialize at the database, and counters move with SQL expressions
// rather than read-modify-write. Three branches: no prior vote records one,
// the same type retracts it, a different type switches it. The counters in
// the result are read back inside the same transaction.
func (r *voteRepo) CastVote(emergencyID uuid.UUID, userID uint, voteType string) (*models.VoteResult, error) {
	result := &models.VoteResult{}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var emergency models.Emergency
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", emergencyID).
			First(&emergency).Error; err != nil {
			return err
		}

		var existing models.Vote
		err := tx.Where("emergency_id = ? AND user_id = ?", emergencyID, userID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				EmergencyID: emergencyID,
				UserID:      userID,
				VoteType:    voteType,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			if err := incrementCounter(tx, emergencyID, voteType, +1); err != nil {
				return err
			}
			result.Outcome = models.VoteRecorded

		case err != nil:
			return err

		case existing.VoteType == voteType:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := incrementCounter(tx, emergencyID, voteType, -1); err != nil {
				return err
			}
			result.Outcome = models.VoteRemoved

		default:
			// Update writes voteType back into existing, so the old type
			// must be captured first or the wrong counter moves.
			oldType := existing.VoteType
			if err := tx.Model(&existing).Update("vote_type", voteType).Error; err != nil {
				return err
			}
			if err := incrementCounter(tx, emergencyID, oldType, -1); err != nil {
				return err
			}
			if err := incrementCounter(tx, emergencyID, voteType, +1); err != nil {
				return err
			}
			result.Outcome = models.VoteUpdated
		}

		var counters models.Emergency
		if err := tx.Select("upvotes", "downvotes").
			Where("id = ?", emergencyID).
			Take(&counters).Error; err != nil {
			return err
		}
		result.Upvotes = counters.Upvotes
		result.Downvotes = counters.Downvotes
		return nil
	})
	if err != nil {
		log.Printf("castVote rolled back for emergency %s user %d: %v", emergencyID, userID, err)
		return nil, err
	}

	return result, nil
}

func incrementCounter(tx *gorm.DB, emergencyID uuid.UUID, voteType string, delta int) error {
	column := "upvotes"
	if voteType == models.VoteDownvote {
		column = "downvotes"
	}
	return tx.Model(&models.Emergency{}).
		Where("id = ?", emergencyID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// CountVotes reads the ledger directly, bypassing the denormalized
// counters. Used to audit the counter invariant.
func (r *voteRepo) CountVotes(emergencyID uuid.UUID, voteType string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Vote{}).
		Where("emergency_id = ? AND vote_type = ?", emergencyID, voteType).
		Count(&count).Error
	return count, err
}
