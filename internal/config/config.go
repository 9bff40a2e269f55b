// Package config loads runtime configuration from the environment, with
// optional .env file support.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	DBPath string

	// Logging
	LogLevel string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Snapshot backups (disabled unless bucket and credentials are set)
	S3Endpoint       string
	S3Bucket         string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
	BackupPassphrase string
	BackupInterval   time.Duration

	// Web push (disabled unless both keys are set)
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("CHOREJAR_PORT", "8080"),
		DBPath:   getEnv("CHOREJAR_DB_PATH", "chorejar.db"),
		LogLevel: getEnv("CHOREJAR_LOG_LEVEL", "info"),

		JWTSecret:     getEnv("CHOREJAR_JWT_SECRET", ""),
		TokenDuration: getEnvDuration("CHOREJAR_TOKEN_DURATION", 24*time.Hour),

		S3Endpoint:       getEnv("CHOREJAR_S3_ENDPOINT", ""),
		S3Bucket:         getEnv("CHOREJAR_S3_BUCKET", ""),
		S3Region:         getEnv("CHOREJAR_S3_REGION", "auto"),
		S3AccessKey:      getEnv("CHOREJAR_S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("CHOREJAR_S3_SECRET_KEY", ""),
		BackupPassphrase: getEnv("CHOREJAR_BACKUP_PASSPHRASE", ""),
		BackupInterval:   getEnvDuration("CHOREJAR_BACKUP_INTERVAL", 24*time.Hour),

		VAPIDPublicKey:  getEnv("CHOREJAR_VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("CHOREJAR_VAPID_PRIVATE_KEY", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
