package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "PUBLIC_BASE_URL", "CORS_ORIGINS", "PHOTO_MAX_BYTES", "PHOTO_STORAGE", "UPLOAD_DIR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, "http://localhost:8000", cfg.PublicBaseURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, int64(300*1024), cfg.Photo.MaxBytes)
	assert.Equal(t, "local", cfg.Photo.Storage)
	assert.Equal(t, "uploads", cfg.Photo.Dir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "https://staff.example.com/")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("PHOTO_MAX_BYTES", "1024")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "https://staff.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, int64(1024), cfg.Photo.MaxBytes)
	assert.True(t, cfg.Photo.MinIOUseSSL)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestConfig_PhotoURL(t *testing.T) {
	cfg := &Config{PublicBaseURL: "http://localhost:8000"}
	assert.Equal(t, "http://localhost:8000/img/photo-1-2.jpg", cfg.PhotoURL("photo-1-2.jpg"))
}
