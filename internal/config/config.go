package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	AppEnv          string
	DatabaseURL     string
	JWTSecret       string
	JWTTTL          time.Duration
	AllowOrigins    []string
	GoogleAudience  string
	LogstashTCPAddr string
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOUseSSL     bool
	MinIOBucket     string
	MinIOPublicURL  string
	AvatarMaxBytes  int64
}

// Debug reports whether internal error details may be surfaced to callers.
func (c Config) Debug() bool {
	return c.AppEnv == "development"
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	ttl := 7 * 24 * time.Hour
	if v, err := time.ParseDuration(getenv("JWT_TTL", "168h")); err == nil && v > 0 {
		ttl = v
	}

	avatarMax := int64(5 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("AVATAR_MAX_BYTES", "5242880"), 10, 64); err == nil && v > 0 {
		avatarMax = v
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		AppEnv:          getenv("APP_ENV", "production"),
		DatabaseURL:     must("DATABASE_URL"),
		JWTSecret:       must("JWT_SECRET"),
		JWTTTL:          ttl,
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		GoogleAudience:  getenv("GOOGLE_AUDIENCE", ""),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:   must("MINIO_ENDPOINT"),
		MinIOAccessKey:  must("MINIO_ACCESS_KEY"),
		MinIOSecretKey:  must("MINIO_SECRET_KEY"),
		MinIOUseSSL:     getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucket:     getenv("MINIO_BUCKET_AVATARS", "shelterhub-avatars"),
		MinIOPublicURL:  getenv("MINIO_PUBLIC_URL", ""),
		AvatarMaxBytes:  avatarMax,
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
