package db

import (
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/terangalabs/alertsn/models"
	"gorm.io/gorm"
)

const (
	DefaultNearbyRadius = 5000
	DefaultNearbyLimit  = 50
	MaxNearbyLimit      = 200
)

// EmergencyRepository is the geo-store for reports: persistence plus the
// distance-aware queries behind the nearby endpoints.
type EmergencyRepository interface {
	SaveEmergency(e *models.Emergency) (*models.Emergency, error)
	GetEmergencyByID(id uuid.UUID) (*models.Emergency, error)
	GetEmergencyDetail(id uuid.UUID) (*models.EmergencyDetail, error)
	GetNearby(q *models.NearbyQuery) ([]models.EmergencyWithDistance, error)
	GetByUser(userID uint, status string, limit, offset int) ([]models.EmergencyWithDistance, error)
	ApplyPatch(id uuid.UUID, patch models.EmergencyPatch) (*models.Emergency, error)
	IncrementViewCount(id uuid.UUID) error
	DeleteByID(id uuid.UUID) error
	Stats(q *models.StatsQuery) (*models.StatsResult, error)
	GetMediaByEmergency(id uuid.UUID) ([]models.EmergencyMedia, error)
	SaveAuditLog(entry *models.AuditLog)
}

type emergencyRepo struct {
	DB *gorm.DB
}

func NewEmergencyRepo(db *GormDB) EmergencyRepository {
	return &emergencyRepo{db.DB}
}

// The projection shared by list queries. Latitude/longitude are unpacked
// from the geography column, distance comes from the spatial index scan.
const nearbySelect = `
	SELECT
		e.id, e.type, e.title, e.description, e.address, e.severity, e.status,
		e.is_anonymous, e.upvotes, e.downvotes, e.view_count, e.created_at,
		ST_Y(e.location::geometry) AS latitude,
		ST_X(e.location::geometry) AS longitude,
		ST_Distance(e.location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) AS distance,
		CASE WHEN e.is_anonymous THEN NULL ELSE u.username END AS username,
		CASE WHEN e.is_anonymous THEN NULL ELSE u.profile_picture END AS profile_picture,
		(SELECT COUNT(*) FROM emergency_media m WHERE m.emergency_id = e.id) AS media_count
	FROM emergencies e
	LEFT JOIN users u ON e.user_id = u.id`

func (r *emergencyRepo) SaveEmergency(e *models.Emergency) (*models.Emergency, error) {
	if err := r.DB.Create(e).Error; err != nil {
		return nil, errors.Wrap(err, "saving emergency")
	}
	return e, nil
}

func (r *emergencyRepo) GetEmergencyByID(id uuid.UUID) (*models.Emergency, error) {
	var emergency models.Emergency
	err := r.DB.Raw(`
		SELECT e.id, e.user_id, e.type, e.title, e.description, e.address,
			e.severity, e.status, e.is_anonymous, e.upvotes, e.downvotes,
			e.view_count, e.responder_id, e.resolved_at, e.created_at, e.updated_at
		FROM emergencies e WHERE e.id = ?`, id).Scan(&emergency).Error
	if err != nil {
		return nil, err
	}
	if emergency.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &emergency, nil
}

func (r *emergencyRepo) GetEmergencyDetail(id uuid.UUID) (*models.EmergencyDetail, error) {
	var detail models.EmergencyDetail
	err := r.DB.Raw(`
		SELECT
			e.id, e.type, e.title, e.description, e.address, e.severity, e.status,
			e.is_anonymous, e.upvotes, e.downvotes, e.view_count,
			e.created_at, e.updated_at, e.resolved_at,
			ST_Y(e.location::geometry) AS latitude,
			ST_X(e.location::geometry) AS longitude,
			e.user_id,
			CASE WHEN e.is_anonymous THEN NULL ELSE u.username END AS username,
			CASE WHEN e.is_anonymous THEN NULL ELSE u.profile_picture END AS profile_picture,
			CASE WHEN e.is_anonymous THEN NULL ELSE u.phone_number END AS phone_number,
			e.responder_id,
			resp.username AS responder_username
		FROM emergencies e
		LEFT JOIN users u ON e.user_id = u.id
		LEFT JOIN users resp ON e.responder_id = resp.id
		WHERE e.id = ?`, id).Scan(&detail).Error
	if err != nil {
		return nil, err
	}
	if detail.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	media, err := r.GetMediaByEmergency(id)
	if err != nil {
		return nil, err
	}
	detail.Media = media
	return &detail, nil
}

// GetNearby runs the radius query against the GiST index: ST_DWithin keeps
// the scan indexed, ST_Distance annotates each row with meters from the
// center. Distance ascending, newest first on ties.
func (r *emergencyRepo) GetNearby(q *models.NearbyQuery) ([]models.EmergencyWithDistance, error) {
	query := nearbySelect + `
	WHERE ST_DWithin(e.location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)
	AND e.status = ?`

	args := []interface{}{q.Longitude, q.Latitude, q.Longitude, q.Latitude, q.Radius, q.Status}

	if q.Type != "" {
		query += ` AND e.type = ?`
		args = append(args, q.Type)
	}

	query += ` ORDER BY distance ASC, e.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset)

	emergencies := []models.EmergencyWithDistance{}
	if err := r.DB.Raw(query, args...).Scan(&emergencies).Error; err != nil {
		return nil, errors.Wrap(err, "nearby query")
	}
	return emergencies, nil
}

func (r *emergencyRepo) GetByUser(userID uint, status string, limit, offset int) ([]models.EmergencyWithDistance, error) {
	query := `
	SELECT
		e.id, e.type, e.title, e.description, e.address, e.severity, e.status,
		e.is_anonymous, e.upvotes, e.downvotes, e.view_count, e.created_at,
		ST_Y(e.location::geometry) AS latitude,
		ST_X(e.location::geometry) AS longitude,
		(SELECT COUNT(*) FROM emergency_media m WHERE m.emergency_id = e.id) AS media_count
	FROM emergencies e
	WHERE e.user_id = ?`

	args := []interface{}{userID}

	if status != "" {
		query += ` AND e.status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY e.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	emergencies := []models.EmergencyWithDistance{}
	if err := r.DB.Raw(query, args...).Scan(&emergencies).Error; err != nil {
		return nil, errors.Wrap(err, "reports by user")
	}
	return emergencies, nil
}

// ApplyPatch writes only the fields the lifecycle manager decided to set.
// Column names are fixed here, never assembled from input.
func (r *emergencyRepo) ApplyPatch(id uuid.UUID, patch models.EmergencyPatch) (*models.Emergency, error) {
	updates := map[string]interface{}{}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.ResponderID != nil {
		updates["responder_id"] = *patch.ResponderID
	}
	if patch.ResolvedAt != nil {
		updates["resolved_at"] = *patch.ResolvedAt
	}
	if len(updates) == 0 {
		return r.GetEmergencyByID(id)
	}

	result := r.DB.Model(&models.Emergency{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "updating emergency")
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetEmergencyByID(id)
}

// IncrementViewCount bumps the counter in place. Callers treat this as fire
// and forget; the count is not part of any consistency guarantee.
func (r *emergencyRepo) IncrementViewCount(id uuid.UUID) error {
	return r.DB.Model(&models.Emergency{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// DeleteByID removes the report and its dependents in one transaction.
func (r *emergencyRepo) DeleteByID(id uuid.UUID) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("emergency_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("emergency_id = ?", id).Delete(&models.EmergencyMedia{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Emergency{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Stats is always computed live; it is a low-frequency admin query.
func (r *emergencyRepo) Stats(q *models.StatsQuery) (*models.StatsResult, error) {
	spatial := ""
	args := []interface{}{}
	if q.Latitude != nil && q.Longitude != nil {
		spatial = ` WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)`
		args = append(args, *q.Longitude, *q.Latitude, q.Radius)
	}

	byType := []models.TypeStat{}
	typeQuery := `SELECT type, COUNT(*) AS count, AVG(severity) AS avg_severity FROM emergencies` +
		spatial + ` GROUP BY type ORDER BY count DESC`
	if err := r.DB.Raw(typeQuery, args...).Scan(&byType).Error; err != nil {
		return nil, errors.Wrap(err, "stats by type")
	}

	byStatus := []models.StatusStat{}
	statusQuery := `SELECT status, COUNT(*) AS count FROM emergencies` +
		spatial + ` GROUP BY status`
	if err := r.DB.Raw(statusQuery, args...).Scan(&byStatus).Error; err != nil {
		return nil, errors.Wrap(err, "stats by status")
	}

	return &models.StatsResult{ByType: byType, ByStatus: byStatus}, nil
}

func (r *emergencyRepo) GetMediaByEmergency(id uuid.UUID) ([]models.EmergencyMedia, error) {
	media := []models.EmergencyMedia{}
	err := r.DB.Where("emergency_id = ?", id).Order("created_at").Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

// SaveAuditLog writes best effort; an audit failure never fails the request.
func (r *emergencyRepo) SaveAuditLog(entry *models.AuditLog) {
	if err := r.DB.Create(entry).Error; err != nil {
		log.Printf("failed to write audit log %s: %v", entry.Action, err)
	}
}
