package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	PublicBaseURL string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	CORSOrigins   []string
	LogLevel      string
	LogFormat     string
	SwaggerHost   string

	Photo PhotoConfig
	Seed  SeedConfig
}

// PhotoConfig selects and configures the profile photo store.
type PhotoConfig struct {
	Storage  string // local or minio
	Dir      string
	MaxBytes int64

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

// SeedConfig describes the admin account created by cmd/seed.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present; real
// environment variables win over its values.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8000"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8000"), "/"),
		MySQLDSN:      getEnv("MYSQL_DSN", "root:@tcp(localhost:3306)/staff_management?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
		Photo: PhotoConfig{
			Storage:        getEnv("PHOTO_STORAGE", "local"),
			Dir:            getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes:       int64(getEnvInt("PHOTO_MAX_BYTES", 300*1024)),
			MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinIOBucket:    getEnv("MINIO_BUCKET", "staff-photos"),
			MinIOUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Seed: SeedConfig{
			AdminName:     getEnv("SEED_ADMIN_NAME", "Administrator"),
			AdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
			AdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		},
	}
}

// PhotoURL returns the public URL a stored photo is served under.
func (c *Config) PhotoURL(name string) string {
	return c.PublicBaseURL + "/img/" + name
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
