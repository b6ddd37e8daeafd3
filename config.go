package main

import (
	"fmt"
	"strings"
)

const (
	defaultUploadDir  = "uploads"
	defaultCORSOrigin = "http://localhost:3000"
	defaultS3Region   = "us-east-1"
)

// Config holds everything main needs to wire the server. It is read once at
// startup and passed down; nothing else reads the environment.
type Config struct {
	Port          string
	ConnectionURL string
	JWTSecretKey  string
	UploadDir     string
	CORSOrigin    string
	LogLevel      string
	LogFormat     string
	S3            S3Config
}

// S3Config is only used when Bucket is set.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// loadConfig reads the configuration through getenv. PORT, CONNECTION_URL and
// JWT_SECRET_KEY have no defaults.
func loadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT"),
		ConnectionURL: getenv("CONNECTION_URL"),
		JWTSecretKey:  getenv("JWT_SECRET_KEY"),
		UploadDir:     envOr(getenv, "UPLOAD_DIR", defaultUploadDir),
		CORSOrigin:    envOr(getenv, "CORS_ORIGIN", defaultCORSOrigin),
		LogLevel:      envOr(getenv, "LOG_LEVEL", "info"),
		LogFormat:     envOr(getenv, "LOG_FORMAT", "text"),
		S3: S3Config{
			Bucket:    getenv("S3_BUCKET"),
			Region:    envOr(getenv, "S3_REGION", defaultS3Region),
			Endpoint:  getenv("S3_ENDPOINT"),
			AccessKey: getenv("S3_ACCESS_KEY"),
			SecretKey: getenv("S3_SECRET_KEY"),
		},
	}

	var missing []string
	if cfg.Port == "" {
		missing = append(missing, "PORT")
	}
	if cfg.ConnectionURL == "" {
		missing = append(missing, "CONNECTION_URL")
	}
	if cfg.JWTSecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// Addr returns the listen address for PORT, accepting either "5000" or ":5000".
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
