// Package config loads the server configuration from the environment,
// with .env support for local development.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Upstream configures the realtime AI endpoint.
type Upstream struct {
	APIKey string
	URL    string
	Model  string
}

// S3 configures the object-storage mirror for audio artifacts. An empty
// bucket disables mirroring.
type S3 struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Config is the full server configuration.
type Config struct {
	Port      string
	JWTSecret string

	Upstream Upstream

	// MetadataWait bounds how long the opening turn waits for the
	// client's participant metadata.
	MetadataWait time.Duration

	SaveAudio  bool
	AudioDir   string
	TrafficLog bool

	DatabaseDSN string
	GeminiKey   string
	S3          S3
}

// Load reads the configuration. A missing .env file is not an error;
// a missing upstream API key is.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Upstream: Upstream{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			URL:    getEnv("OPENAI_REALTIME_URL", "wss://api.openai.com/v1/realtime"),
			Model:  getEnv("OPENAI_REALTIME_MODEL", "gpt-4o-realtime-preview-2025-06-03"),
		},
		MetadataWait: getDuration("METADATA_WAIT", 5*time.Second),
		SaveAudio:    getBool("SAVE_AUDIO", false),
		AudioDir:     getEnv("AUDIO_DIR", "./recordings"),
		TrafficLog:   getBool("WS_TRAFFIC_LOG", false),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		S3: S3{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    getEnv("S3_REGION", "ap-southeast-2"),
			Bucket:    os.Getenv("S3_BUCKET"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
	}

	if cfg.Upstream.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
