package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terangalabs/alertsn/cache"
	"github.com/terangalabs/alertsn/config"
	"github.com/terangalabs/alertsn/db"
	"github.com/terangalabs/alertsn/services"
)

// Server serves requests
type Server struct {
	Config              *config.Config
	AuthRepository      db.AuthRepository
	AuthService         services.AuthService
	EmergencyRepository db.EmergencyRepository
	EmergencyService    services.EmergencyService
	VoteService         services.VoteService
	FacilityService     services.FacilityService
	Cache               *cache.Client
	Hub                 *Hub
	DB                  *db.GormDB
}

// Start starts the websocket hub and the HTTP server, then blocks until a
// shutdown signal drains both.
func (s *Server) Start() {
	go s.Hub.Run()

	r := s.setupRouter()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Config.Port),
		Handler: r,
	}

	go func() {
		log.Printf("server starting on port %d", s.Config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	if err := s.Cache.Close(); err != nil {
		log.Printf("closing redis: %v", err)
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Printf("closing database: %v", err)
		}
	}

	log.Println("server exited")
}
