package main

import (
	"log"

	"github.com/terangalabs/alertsn/cache"
	"github.com/terangalabs/alertsn/config"
	"github.com/terangalabs/alertsn/db"
	"github.com/terangalabs/alertsn/server"
	"github.com/terangalabs/alertsn/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	cacheClient := cache.New(conf)

	authRepo := db.NewAuthRepo(gormDB)
	emergencyRepo := db.NewEmergencyRepo(gormDB)
	voteRepo := db.NewVoteRepo(gormDB)
	facilityRepo := db.NewFacilityRepo(gormDB)

	hub := server.NewHub()

	authService := services.NewAuthService(authRepo, conf)
	emergencyService := services.NewEmergencyService(emergencyRepo, cacheClient, hub, conf)
	voteService := services.NewVoteService(voteRepo, emergencyRepo, cacheClient)
	facilityService := services.NewFacilityService(facilityRepo)

	s := &server.Server{
		Config:              conf,
		AuthRepository:      authRepo,
		AuthService:         authService,
		EmergencyRepository: emergencyRepo,
		EmergencyService:    emergencyService,
		VoteService:         voteService,
		FacilityService:     facilityService,
		Cache:               cacheClient,
		Hub:                 hub,
		DB:                  gormDB,
	}

	s.Start()
}
