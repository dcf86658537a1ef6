package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/terangalabs/alertsn/db"
	"github.com/terangalabs/alertsn/errors"
	"github.com/terangalabs/alertsn/server/response"
)

func (s *Server) handleGetNearbyFacilities() gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, latOK := parseFloatQuery(c, "latitude")
		lng, lngOK := parseFloatQuery(c, "longitude")
		if !latOK || !lngOK {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("latitude and longitude are required", http.StatusBadRequest))
			return
		}

		radius, ok := parseFloatQuery(c, "radius")
		if !ok || radius <= 0 {
			radius = 10000
		}

		limit := parseIntQuery(c, "limit", 20)
		if limit > db.MaxNearbyLimit {
			limit = db.MaxNearbyLimit
		}

		facilities, errr := s.FacilityService.GetNearbyFacilities(lat, lng, radius, c.Query("type"), limit, parseIntQuery(c, "offset", 0))
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Nearby facilities retrieved", http.StatusOK, gin.H{
			"facilities": facilities,
			"results":    len(facilities),
		}, nil)
	}
}
