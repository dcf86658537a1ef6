package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/terangalabs/alertsn/db"
	"github.com/terangalabs/alertsn/errors"
	"github.com/terangalabs/alertsn/models"
	"github.com/terangalabs/alertsn/server/response"
)

// currentUser pulls the authenticated user out of the context.
func currentUser(c *gin.Context) (*models.User, bool) {
	userCtx, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := userCtx.(*models.User)
	return user, ok
}

func parseFloatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func (s *Server) handleCreateEmergency() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("user not found in context", http.StatusInternalServerError))
			return
		}

		var request models.CreateEmergencyRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		emergency, errr := s.EmergencyService.CreateEmergency(c.Request.Context(), user, &request, c.ClientIP())
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Emergency reported", http.StatusCreated, emergency, nil)
	}
}

func (s *Server) handleGetNearby() gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, latOK := parseFloatQuery(c, "latitude")
		lng, lngOK := parseFloatQuery(c, "longitude")
		if !latOK || !lngOK {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("latitude and longitude are required", http.StatusBadRequest))
			return
		}

		radius, ok := parseFloatQuery(c, "radius")
		if !ok || radius <= 0 {
			radius = db.DefaultNearbyRadius
		}

		limit := parseIntQuery(c, "limit", db.DefaultNearbyLimit)
		if limit > db.MaxNearbyLimit {
			limit = db.MaxNearbyLimit
		}

		status := c.DefaultQuery("status", models.StatusActive)

		q := &models.NearbyQuery{
			Latitude:  lat,
			Longitude: lng,
			Radius:    radius,
			Type:      c.Query("type"),
			Status:    status,
			Limit:     limit,
			Offset:    parseIntQuery(c, "offset", 0),
		}

		result, errr := s.EmergencyService.GetNearby(c.Request.Context(), q)
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Nearby emergencies retrieved", http.StatusOK, result, nil)
	}
}

func (s *Server) handleGetEmergency() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid emergency id", http.StatusBadRequest))
			return
		}

		detail, errr := s.EmergencyService.GetEmergencyDetail(c.Request.Context(), id)
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Emergency retrieved", http.StatusOK, detail, nil)
	}
}

func (s *Server) handleUpdateEmergency() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("user not found in context", http.StatusInternalServerError))
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid emergency id", http.StatusBadRequest))
			return
		}

		var request models.UpdateEmergencyRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		updated, errr := s.EmergencyService.UpdateEmergency(c.Request.Context(), user, id, &request, c.ClientIP())
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Emergency updated", http.StatusOK, updated, nil)
	}
}

func (s *Server) handleDeleteEmergency() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("user not found in context", http.StatusInternalServerError))
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid emergency id", http.StatusBadRequest))
			return
		}

		if errr := s.EmergencyService.DeleteEmergency(c.Request.Context(), user, id, c.ClientIP()); errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleVote() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("user not found in context", http.StatusInternalServerError))
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid emergency id", http.StatusBadRequest))
			return
		}

		var request models.VoteRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		result, errr := s.VoteService.CastVote(c.Request.Context(), user, id, request.VoteType, c.ClientIP())
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, result.Outcome, http.StatusOK, result, nil)
	}
}

func (s *Server) handleGetMyReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("user not found in context", http.StatusInternalServerError))
			return
		}

		limit := parseIntQuery(c, "limit", db.DefaultNearbyLimit)
		if limit > db.MaxNearbyLimit {
			limit = db.MaxNearbyLimit
		}

		emergencies, errr := s.EmergencyService.GetUserEmergencies(user.ID, c.Query("status"), limit, parseIntQuery(c, "offset", 0))
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Reports retrieved", http.StatusOK, gin.H{
			"emergencies": emergencies,
			"results":     len(emergencies),
		}, nil)
	}
}

func (s *Server) handleGetStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := &models.StatsQuery{}

		if lat, ok := parseFloatQuery(c, "latitude"); ok {
			q.Latitude = &lat
		}
		if lng, ok := parseFloatQuery(c, "longitude"); ok {
			q.Longitude = &lng
		}
		radius, ok := parseFloatQuery(c, "radius")
		if !ok || radius <= 0 {
			radius = db.DefaultNearbyRadius
		}
		q.Radius = radius

		stats, errr := s.EmergencyService.GetStats(q)
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Stats retrieved", http.StatusOK, stats, nil)
	}
}
