package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	authLimit := s.rateLimit(time.Minute, 10)
	reportLimit := s.rateLimit(time.Minute, 5)

	router.GET("/ws", s.handleWS())

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", authLimit, s.handleSignup())
	apirouter.POST("/auth/login", authLimit, s.handleLogin())
	apirouter.GET("/emergencies/nearby", s.handleGetNearby())
	apirouter.GET("/emergencies/stats", s.handleGetStats())
	apirouter.GET("/emergencies/:id", s.handleGetEmergency())
	apirouter.GET("/facilities/nearby", s.handleGetNearbyFacilities())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.POST("/emergencies", reportLimit, s.handleCreateEmergency())
	authorized.GET("/emergencies/my-reports", s.handleGetMyReports())
	authorized.PATCH("/emergencies/:id", s.handleUpdateEmergency())
	authorized.DELETE("/emergencies/:id", s.handleDeleteEmergency())
	authorized.POST("/emergencies/:id/vote", s.handleVote())
}
