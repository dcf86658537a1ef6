package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/terangalabs/alertsn/cache"
	"github.com/terangalabs/alertsn/config"
	"github.com/terangalabs/alertsn/db"
	apiError "github.com/terangalabs/alertsn/errors"
	"github.com/terangalabs/alertsn/models"
	"gorm.io/gorm"
)

// Broadcaster pushes realtime events to connected clients.
type Broadcaster interface {
	BroadcastEvent(event string, payload interface{})
}

// NearbyCache is the slice of the cache the proximity engine depends on.
type NearbyCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, v interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, scopes ...string)
}

// EmergencyService interface
type EmergencyService interface {
	CreateEmergency(ctx context.Context, user *models.User, request *models.CreateEmergencyRequest, clientIP string) (*models.Emergency, *apiError.Error)
	GetNearby(ctx context.Context, q *models.NearbyQuery) (*models.NearbyResult, *apiError.Error)
	GetEmergencyDetail(ctx context.Context, id uuid.UUID) (*models.EmergencyDetail, *apiError.Error)
	UpdateEmergency(ctx context.Context, user *models.User, id uuid.UUID, request *models.UpdateEmergencyRequest, clientIP string) (*models.Emergency, *apiError.Error)
	DeleteEmergency(ctx context.Context, user *models.User, id uuid.UUID, clientIP string) *apiError.Error
	GetUserEmergencies(userID uint, status string, limit, offset int) ([]models.EmergencyWithDistance, *apiError.Error)
	GetStats(q *models.StatsQuery) (*models.StatsResult, *apiError.Error)
}

type emergencyService struct {
	Config        *config.Config
	emergencyRepo db.EmergencyRepository
	cache         NearbyCache
	hub           Broadcaster
}

// NewEmergencyService instantiates an EmergencyService
func NewEmergencyService(emergencyRepo db.EmergencyRepository, nearbyCache NearbyCache, hub Broadcaster, conf *config.Config) EmergencyService {
	return &emergencyService{
		Config:        conf,
		emergencyRepo: emergencyRepo,
		cache:         nearbyCache,
		hub:           hub,
	}
}

// Allowed status transitions. Resolved and false_alarm are terminal for
// everyone, admins included.
var allowedTransitions = map[string][]string{
	models.StatusActive:     {models.StatusInProgress, models.StatusResolved, models.StatusFalseAlarm},
	models.StatusInProgress: {models.StatusResolved},
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *emergencyService) CreateEmergency(ctx context.Context, user *models.User, request *models.CreateEmergencyRequest, clientIP string) (*models.Emergency, *apiError.Error) {
	if err := models.ValidateWhiteSpaces(request); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if !models.ValidEmergencyType(request.Type) {
		return nil, apiError.New("invalid emergency type", http.StatusBadRequest)
	}
	if !models.ValidCoordinates(request.Latitude, request.Longitude) {
		return nil, apiError.New("invalid coordinates", http.StatusBadRequest)
	}
	severity := request.Severity
	if severity == 0 {
		severity = 3
	}
	if severity < 1 || severity > 5 {
		return nil, apiError.New("severity must be between 1 and 5", http.StatusBadRequest)
	}

	// Anonymous reports carry no ownership reference at all; lifecycle
	// permissions on them fall through to responders and admins.
	var reporterID *uint
	if !request.IsAnonymous {
		reporterID = &user.ID
	}

	emergency := &models.Emergency{
		UserID:      reporterID,
		Type:        request.Type,
		Title:       request.Title,
		Description: request.Description,
		Location:    models.GeoPoint{Lng: request.Longitude, Lat: request.Latitude},
		Address:     request.Address,
		Severity:    severity,
		Status:      models.StatusActive,
		IsAnonymous: request.IsAnonymous,
	}

	saved, err := s.emergencyRepo.SaveEmergency(emergency)
	if err != nil {
		log.Printf("CreateEmergency save error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	s.cache.Invalidate(ctx, cache.ScopeNearby)
	s.hub.BroadcastEvent("new_emergency", publicPayload(saved))

	s.emergencyRepo.SaveAuditLog(&models.AuditLog{
		UserID:     &user.ID,
		Action:     models.ActionCreateEmergency,
		EntityType: "emergency",
		EntityID:   saved.ID.String(),
		IPAddress:  clientIP,
	})

	return saved, nil
}

// publicPayload strips reporter identity for anonymous reports before the
// emergency leaves the server on the broadcast channel.
func publicPayload(e *models.Emergency) map[string]interface{} {
	payload := map[string]interface{}{
		"id":           e.ID,
		"type":         e.Type,
		"title":        e.Title,
		"description":  e.Description,
		"latitude":     e.Location.Lat,
		"longitude":    e.Location.Lng,
		"address":      e.Address,
		"severity":     e.Severity,
		"status":       e.Status,
		"is_anonymous": e.IsAnonymous,
		"created_at":   e.CreatedAt,
	}
	if !e.IsAnonymous {
		payload["user_id"] = e.UserID
	}
	return payload
}

// GetNearby serves a nearby page cache-aside: quantized key lookup first,
// then the spatial query, then a best-effort fill.
func (s *emergencyService) GetNearby(ctx context.Context, q *models.NearbyQuery) (*models.NearbyResult, *apiError.Error) {
	if !models.ValidCoordinates(q.Latitude, q.Longitude) {
		return nil, apiError.New("invalid coordinates", http.StatusBadRequest)
	}
	if q.Type != "" && !models.ValidEmergencyType(q.Type) {
		return nil, apiError.New("invalid emergency type", http.StatusBadRequest)
	}
	if !models.ValidEmergencyStatus(q.Status) {
		return nil, apiError.New("invalid status", http.StatusBadRequest)
	}

	key := cache.NearbyKey(q.Latitude, q.Longitude, q.Radius, q.Type, q.Status, q.Limit, q.Offset)

	var cached []models.EmergencyWithDistance
	if s.cache.Get(ctx, key, &cached) {
		return &models.NearbyResult{Emergencies: cached, Results: len(cached), Cached: true}, nil
	}

	emergencies, err := s.emergencyRepo.GetNearby(q)
	if err != nil {
		log.Printf("GetNearby query error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	ttl := time.Duration(s.Config.NearbyCacheTTLSeconds) * time.Second
	s.cache.Set(ctx, key, emergencies, ttl)

	return &models.NearbyResult{Emergencies: emergencies, Results: len(emergencies), Cached: false}, nil
}

func (s *emergencyService) GetEmergencyDetail(ctx context.Context, id uuid.UUID) (*models.EmergencyDetail, *apiError.Error) {
	detail, err := s.emergencyRepo.GetEmergencyDetail(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("emergency not found", http.StatusNotFound)
		}
		log.Printf("GetEmergencyDetail error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	// View counting is fire and forget; the response carries the count as
	// it was when read.
	go func(id uuid.UUID) {
		if err := s.emergencyRepo.IncrementViewCount(id); err != nil {
			log.Printf("view count bump failed for %s: %v", id, err)
		}
	}(id)

	return detail, nil
}

func (s *emergencyService) UpdateEmergency(ctx context.Context, user *models.User, id uuid.UUID, request *models.UpdateEmergencyRequest, clientIP string) (*models.Emergency, *apiError.Error) {
	emergency, err := s.emergencyRepo.GetEmergencyByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("emergency not found", http.StatusNotFound)
		}
		log.Printf("UpdateEmergency load error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	isOwner := emergency.UserID != nil && *emergency.UserID == user.ID

	patch := models.EmergencyPatch{}

	if request.Description != nil {
		if !isOwner && !user.IsAdmin() {
			return nil, apiError.New("only the reporter can edit the description", http.StatusForbidden)
		}
		patch.Description = request.Description
	}

	if request.Status != nil {
		newStatus := *request.Status
		if !models.ValidEmergencyStatus(newStatus) {
			return nil, apiError.New("invalid status", http.StatusBadRequest)
		}
		if !user.IsResponder() {
			return nil, apiError.New("only responders can change status", http.StatusForbidden)
		}
		if !canTransition(emergency.Status, newStatus) {
			return nil, apiError.ErrInvalidTransition(emergency.Status, newStatus)
		}
		patch.Status = &newStatus

		// First responder to act claims the report. Later updates never
		// reassign it.
		if emergency.ResponderID == nil {
			patch.ResponderID = &user.ID
		}
		if newStatus == models.StatusResolved && emergency.ResolvedAt == nil {
			now := time.Now()
			patch.ResolvedAt = &now
		}
	}

	if patch.Empty() {
		return nil, apiError.New("nothing to update", http.StatusBadRequest)
	}

	updated, err := s.emergencyRepo.ApplyPatch(id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("emergency not found", http.StatusNotFound)
		}
		log.Printf("UpdateEmergency patch error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	s.cache.Invalidate(ctx, cache.ScopeNearby)
	s.hub.BroadcastEvent("emergency_updated", map[string]interface{}{
		"id":          updated.ID,
		"status":      updated.Status,
		"responder":   updated.ResponderID,
		"resolved_at": updated.ResolvedAt,
		"updated_at":  updated.UpdatedAt,
	})

	s.emergencyRepo.SaveAuditLog(&models.AuditLog{
		UserID:     &user.ID,
		Action:     models.ActionUpdateEmergency,
		EntityType: "emergency",
		EntityID:   id.String(),
		IPAddress:  clientIP,
	})

	return updated, nil
}

func (s *emergencyService) DeleteEmergency(ctx context.Context, user *models.User, id uuid.UUID, clientIP string) *apiError.Error {
	emergency, err := s.emergencyRepo.GetEmergencyByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("emergency not found", http.StatusNotFound)
		}
		log.Printf("DeleteEmergency load error: %v", err)
		return apiError.ErrInternalServerError
	}

	isOwner := emergency.UserID != nil && *emergency.UserID == user.ID
	if !isOwner && !user.IsAdmin() {
		return apiError.New("only the reporter or an admin can delete a report", http.StatusForbidden)
	}

	if err := s.emergencyRepo.DeleteByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("emergency not found", http.StatusNotFound)
		}
		log.Printf("DeleteEmergency error: %v", err)
		return apiError.ErrInternalServerError
	}

	s.cache.Invalidate(ctx, cache.ScopeNearby)

	s.emergencyRepo.SaveAuditLog(&models.AuditLog{
		UserID:     &user.ID,
		Action:     models.ActionDeleteEmergency,
		EntityType: "emergency",
		EntityID:   id.String(),
		IPAddress:  clientIP,
	})

	return nil
}

func (s *emergencyService) GetUserEmergencies(userID uint, status string, limit, offset int) ([]models.EmergencyWithDistance, *apiError.Error) {
	if status != "" && !models.ValidEmergencyStatus(status) {
		return nil, apiError.New("invalid status", http.StatusBadRequest)
	}
	emergencies, err := s.emergencyRepo.GetByUser(userID, status, limit, offset)
	if err != nil {
		log.Printf("GetUserEmergencies error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return emergencies, nil
}

func (s *emergencyService) GetStats(q *models.StatsQuery) (*models.StatsResult, *apiError.Error) {
	if (q.Latitude == nil) != (q.Longitude == nil) {
		return nil, apiError.New("latitude and longitude must be provided together", http.StatusBadRequest)
	}
	if q.Latitude != nil && !models.ValidCoordinates(*q.Latitude, *q.Longitude) {
		return nil, apiError.New("invalid coordinates", http.StatusBadRequest)
	}
	stats, err := s.emergencyRepo.Stats(q)
	if err != nil {
		log.Printf("GetStats error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return stats, nil
}
