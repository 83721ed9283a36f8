package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the portal API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	JWTSecret              string
	TokenTTL               time.Duration
	GraderProvider         string
	GraderBaseURL          string
	GraderTimeout          time.Duration
	OpenAIAPIKey           string
	OpenAIModel            string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	MaxUploadMB            int
	SubmissionLockTTL      time.Duration
	AggregateCacheTTL      time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PORTAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "School Portal API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("grader.provider", "upstream")
	v.SetDefault("grader.timeout", "30s")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("cloudinary.folder", "portal/submissions")
	v.SetDefault("max_upload_mb", 10)
	v.SetDefault("submission.lock_ttl", "2m")
	v.SetDefault("aggregate.cache_ttl", "1m")

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	graderTimeout, err := time.ParseDuration(v.GetString("grader.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid grader timeout: %w", err)
	}

	lockTTL, err := time.ParseDuration(v.GetString("submission.lock_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submission lock ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("aggregate.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid aggregate cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		TokenTTL:               tokenTTL,
		GraderProvider:         strings.ToLower(v.GetString("grader.provider")),
		GraderBaseURL:          v.GetString("grader.base_url"),
		GraderTimeout:          graderTimeout,
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		OpenAIModel:            v.GetString("openai.model"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		MaxUploadMB:            v.GetInt("max_upload_mb"),
		SubmissionLockTTL:      lockTTL,
		AggregateCacheTTL:      cacheTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	return cfg, nil
}
