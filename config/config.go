package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool   `envconfig:"debug"`
	Port                     int    `envconfig:"port" default:"5000"`
	Env                      string `envconfig:"env"`
	Host                     string `envconfig:"host"`
	BaseUrl                  string `envconfig:"base_url"`
	PostgresHost             string `envconfig:"postgres_host"`
	PostgresPort             int    `envconfig:"postgres_port" default:"5432"`
	PostgresUser             string `envconfig:"postgres_user"`
	PostgresPassword         string `envconfig:"postgres_password"`
	PostgresDB               string `envconfig:"postgres_db"`
	RedisHost                string `envconfig:"redis_host" default:"localhost"`
	RedisPort                int    `envconfig:"redis_port" default:"6379"`
	RedisPassword            string `envconfig:"redis_password"`
	RedisDB                  int    `envconfig:"redis_db"`
	RedisEnabled             bool   `envconfig:"redis_enabled" default:"true"`
	NearbyCacheTTLSeconds    int    `envconfig:"nearby_cache_ttl_seconds" default:"120"`
	JWTSecret                string `envconfig:"jwt_secret"`
	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("alertsn", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
