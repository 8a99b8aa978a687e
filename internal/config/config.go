package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	JWTSecret              string
	JWTTokenTTL            time.Duration
	WechatAppID            string
	WechatAppSecret        string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	QuestionCacheTTL       time.Duration
	ResourceCacheTTL       time.Duration
	ProfileCacheTTL        time.Duration
	StatisticsCacheTTL     time.Duration
	UploadMaxSizeMB        int
	AdminUsername          string
	AdminPassword          string
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
	v.SetEnvPrefix("STUDYPREP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "StudyPrep API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.token_ttl", "168h")
	v.SetDefault("cloudinary.folder", "studyprep/uploads")
	v.SetDefault("question.cache_ttl", "10m")
	v.SetDefault("resource.cache_ttl", "10m")
	v.SetDefault("profile.cache_ttl", "5m")
	v.SetDefault("statistics.cache_ttl", "1m")
	v.SetDefault("upload.max_size_mb", 10)

	tokenTTL, err := parseDuration(v, "jwt.token_ttl", "168h")
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt token ttl: %w", err)
	}
	questionTTL, err := parseDuration(v, "question.cache_ttl", "10m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid question cache ttl: %w", err)
	}
	resourceTTL, err := parseDuration(v, "resource.cache_ttl", "10m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid resource cache ttl: %w", err)
	}
	profileTTL, err := parseDuration(v, "profile.cache_ttl", "5m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid profile cache ttl: %w", err)
	}
	statisticsTTL, err := parseDuration(v, "statistics.cache_ttl", "1m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid statistics cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTTokenTTL:            tokenTTL,
		WechatAppID:            v.GetString("wechat.app_id"),
		WechatAppSecret:        v.GetString("wechat.app_secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		QuestionCacheTTL:       questionTTL,
		ResourceCacheTTL:       resourceTTL,
		ProfileCacheTTL:        profileTTL,
		StatisticsCacheTTL:     statisticsTTL,
		UploadMaxSizeMB:        v.GetInt("upload.max_size_mb"),
		AdminUsername:          v.GetString("admin.username"),
		AdminPassword:          v.GetString("admin.password"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.UploadMaxSizeMB <= 0 {
		cfg.UploadMaxSizeMB = 10
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key, fallback string) (time.Duration, error) {
	value := v.GetString(key)
	if value == "" {
		value = fallback
	}

	return time.ParseDuration(value)
}
