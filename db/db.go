package db

import (
	"fmt"
	"log"

	"github.com/terangalabs/alertsn/config"
	"github.com/terangalabs/alertsn/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=Africa/Dakar",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{TranslateError: true}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

// Close releases the underlying connection pool.
func (g *GormDB) Close() error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func migrate(db *gorm.DB) error {
	// PostGIS before AutoMigrate: the geography columns need the extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS postgis`).Error; err != nil {
		return fmt.Errorf("enabling postgis: %v", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("enabling uuid-ossp: %v", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Blacklist{},
		&models.Emergency{},
		&models.EmergencyMedia{},
		&models.Vote{},
		&models.Facility{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	// GiST indexes keep radius queries off full scans.
	spatialIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_emergencies_location ON emergencies USING GIST(location)`,
		`CREATE INDEX IF NOT EXISTS idx_facilities_location ON facilities USING GIST(location)`,
	}
	for _, stmt := range spatialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("creating spatial index: %v", err)
		}
	}

	if err := SeedFacilities(db); err != nil {
		return fmt.Errorf("seeding facilities error: %v", err)
	}

	return nil
}

// SeedFacilities loads the Dakar reference facilities on first boot.
func SeedFacilities(db *gorm.DB) error {
	facilities := []models.Facility{
		{
			Name:        "Hôpital Principal de Dakar",
			Type:        models.FacilityHospital,
			Location:    models.GeoPoint{Lng: -17.4441, Lat: 14.6937},
			Address:     "Avenue Nelson Mandela, Dakar",
			PhoneNumber: "+221 33 839 50 50",
			IsActive:    true,
		},
		{
			Name:        "Hôpital Aristide Le Dantec",
			Type:        models.FacilityHospital,
			Location:    models.GeoPoint{Lng: -17.4576, Lat: 14.6767},
			Address:     "Avenue Pasteur, Dakar",
			PhoneNumber: "+221 33 821 21 81",
			IsActive:    true,
		},
		{
			Name:        "Commissariat Central de Dakar",
			Type:        models.FacilityPoliceStation,
			Location:    models.GeoPoint{Lng: -17.4467, Lat: 14.6928},
			Address:     "Place de l'Indépendance, Dakar",
			PhoneNumber: "17",
			IsActive:    true,
		},
		{
			Name:        "Caserne Sapeurs-Pompiers Dakar",
			Type:        models.FacilityFireStation,
			Location:    models.GeoPoint{Lng: -17.4536, Lat: 14.6842},
			Address:     "Rue Gallandou Diouf, Dakar",
			PhoneNumber: "18",
			IsActive:    true,
		},
	}

	for _, facility := range facilities {
		var existing models.Facility
		result := db.Where("name = ?", facility.Name).First(&existing)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				if err := db.Create(&facility).Error; err != nil {
					log.Printf("Failed to seed facility %s: %v", facility.Name, err)
					return err
				}
			} else {
				return result.Error
			}
		}
	}

	return nil
}
