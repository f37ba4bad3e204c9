package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Riot API configuration struct.
type RiotConfiguration struct {
	ApiKey          string
	Timeout         time.Duration
	DefaultRegion   string
	BaseURLTemplate string

	// Personal key limits, per routing value.
	ShortLimit int
	LongLimit  int
}

// Redis configuration struct.
type RedisConfiguration struct {
	Host     string
	Port     string
	Password string
}

// Database configuration struct.
type DatabaseConfiguration struct {
	URL               string
	MigrationsEnabled bool
}

// Bucket configuration, used for uploading the logs.
type BucketConfiguration struct {
	Endpoint     string
	Region       string
	AccessKey    string
	AccessSecret string
	LogBucket    string
}

// Config is the full configuration consumed by the fetcher.
type Config struct {
	Riot     RiotConfiguration
	Redis    RedisConfiguration
	Database DatabaseConfiguration
	Bucket   BucketConfiguration

	// Maximum age of a cached summoner before it's refreshed.
	SummonerTTL time.Duration

	GrpcPort string
	LogLevel string
}

// Default values for the Riot API.
const (
	DefaultBaseURLTemplate = "https://%s.api.riotgames.com"
	DefaultTimeoutSeconds  = 10
	DefaultRegion          = "europe"
	DefaultTTLMinutes      = 0.5
)

// Load the variables.
// A .env file is optional, the environment always takes precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Riot: RiotConfiguration{
			ApiKey:          os.Getenv("RIOT_API_KEY"),
			Timeout:         time.Duration(getEnvInt("RIOT_TIMEOUT_SECONDS", DefaultTimeoutSeconds)) * time.Second,
			DefaultRegion:   getEnv("RIOT_DEFAULT_REGION", DefaultRegion),
			BaseURLTemplate: getEnv("RIOT_BASE_URL_TEMPLATE", DefaultBaseURLTemplate),
			ShortLimit:      getEnvInt("RIOT_RATE_LIMIT_SHORT", 20),
			LongLimit:       getEnvInt("RIOT_RATE_LIMIT_LONG", 100),
		},
		Redis: RedisConfiguration{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Database: DatabaseConfiguration{
			URL:               os.Getenv("DATABASE_URL"),
			MigrationsEnabled: getEnv("MIGRATIONS_ENABLED", "true") == "true",
		},
		Bucket: BucketConfiguration{
			Endpoint:     os.Getenv("BUCKET_ENDPOINT"),
			Region:       os.Getenv("BUCKET_REGION"),
			AccessKey:    os.Getenv("BUCKET_ACCESS_KEY"),
			AccessSecret: os.Getenv("BUCKET_ACCESS_SECRET"),
			LogBucket:    os.Getenv("BUCKET_LOG_BUCKET"),
		},
		SummonerTTL: minutesToDuration(getEnvFloat("SUMMONER_TTL_MINUTES", DefaultTTLMinutes)),
		GrpcPort:    getEnv("GRPC_PORT", "50051"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.Riot.ApiKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// Get a env value or the fallback.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Get a integer env value, invalid values use the fallback.
func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// Get a float env value, invalid values use the fallback.
func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}

// HasBucket tells if the log bucket is configured.
func (c *Config) HasBucket() bool {
	return c.Bucket.Endpoint != "" && c.Bucket.LogBucket != ""
}
