package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/outingly/service-planner/internal/platform/database"
)

// JWTConfig holds token verification settings.
type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

// KafkaConfig holds broker connection settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// GeoConfig holds the travel matrix provider settings.
type GeoConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ScoringConfig holds the chat model settings for itinerary scoring.
type ScoringConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	BatchSize  int
	MaxResults int
}

// ServiceConfig holds all configuration for the planner service.
type ServiceConfig struct {
	Port    string
	AppEnv  string
	DB      database.PostgresConfig
	JWT     JWTConfig
	Kafka   KafkaConfig
	Geo     GeoConfig
	Scoring ScoringConfig
}

// Load reads configuration from PLANNER_-prefixed environment variables,
// applying development defaults for anything unset.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("PLANNER")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "planner")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_ACCESS_TTL_MINUTES", 60)

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "planner")

	v.SetDefault("GEO_BASE_URL", "https://api.openrouteservice.org")
	v.SetDefault("GEO_API_KEY", "")
	v.SetDefault("GEO_TIMEOUT_SECONDS", 10)

	v.SetDefault("SCORING_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("SCORING_API_KEY", "")
	v.SetDefault("SCORING_MODEL", "openai/gpt-oss-120b")
	v.SetDefault("SCORING_BATCH_SIZE", 5)
	v.SetDefault("SCORING_MAX_RESULTS", 4)

	return &ServiceConfig{
		Port:   v.GetString("SERVICE_PORT"),
		AppEnv: v.GetString("APP_ENV"),
		DB: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("JWT_SECRET"),
			AccessTTL: time.Duration(v.GetInt("JWT_ACCESS_TTL_MINUTES")) * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Geo: GeoConfig{
			BaseURL: v.GetString("GEO_BASE_URL"),
			APIKey:  v.GetString("GEO_API_KEY"),
			Timeout: time.Duration(v.GetInt("GEO_TIMEOUT_SECONDS")) * time.Second,
		},
		Scoring: ScoringConfig{
			BaseURL:    v.GetString("SCORING_BASE_URL"),
			APIKey:     v.GetString("SCORING_API_KEY"),
			Model:      v.GetString("SCORING_MODEL"),
			BatchSize:  v.GetInt("SCORING_BATCH_SIZE"),
			MaxResults: v.GetInt("SCORING_MAX_RESULTS"),
		},
	}, nil
}
