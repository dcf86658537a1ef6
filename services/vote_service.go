package services

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/terangalabs/alertsn/cache"
	"github.com/terangalabs/alertsn/db"
	apiError "github.com/terangalabs/alertsn/errors"
	"github.com/terangalabs/alertsn/models"
	"gorm.io/gorm"
)

// VoteService interface
type VoteService interface {
	CastVote(ctx context.Context, user *models.User, emergencyID uuid.UUID, voteType string, clientIP string) (*models.VoteResult, *apiError.Error)
}

type voteService struct {
	voteRepo      db.VoteRepository
	emergencyRepo db.EmergencyRepository
	cache         NearbyCache
}

// NewVoteService instantiates a VoteService
func NewVoteService(voteRepo db.VoteRepository, emergencyRepo db.EmergencyRepository, nearbyCache NearbyCache) VoteService {
	return &voteService{
		voteRepo:      voteRepo,
		emergencyRepo: emergencyRepo,
		cache:         nearbyCache,
	}
}

func (s *voteService) CastVote(ctx context.Context, user *models.User, emergencyID uuid.UUID, voteType string, clientIP string) (*models.VoteResult, *apiError.Error) {
	if voteType != models.VoteUpvote && voteType != models.VoteDownvote {
		return nil, apiError.New("vote_type must be upvote or downvote", http.StatusBadRequest)
	}

	result, err := s.voteRepo.CastVote(emergencyID, user.ID, voteType)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apiError.New("emergency not found", http.StatusNotFound)
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// two requests raced past the row lock; the unique index held
			return nil, apiError.New("vote already recorded", http.StatusConflict)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, apiError.New("emergency not found", http.StatusNotFound)
		}
		log.Printf("CastVote error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	// Counters changed, so cached nearby pages are stale.
	s.cache.Invalidate(ctx, cache.ScopeNearby)

	s.emergencyRepo.SaveAuditLog(&models.AuditLog{
		UserID:     &user.ID,
		Action:     models.ActionVoteEmergency,
		EntityType: "emergency",
		EntityID:   emergencyID.String(),
		IPAddress:  clientIP,
		Metadata:   voteType,
	})

	return result, nil
}
