package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "glosario_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("RATE_LIMIT_RPS", "0.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, 0.5, cfg.RateLimit.RPS)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, "sign-videos", cfg.MinIO.Bucket)
}

func TestLoadConfigDefaultsWithoutMongo(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := LoadConfig()
	require.NoError(t, err, "an in-memory setup needs no external services")
	require.Empty(t, cfg.MongoDB.URI)
	require.Empty(t, cfg.Redis.Addr())
	require.Equal(t, "5001", cfg.Server.Port)
	require.Equal(t, 50.0, cfg.Geo.CityRadiusKm)
	require.Equal(t, 5*time.Minute, cfg.Cache.SnapshotTTL)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 2*time.Second, cfg.Cache.SnapshotMaxAge)
	require.Equal(t, 10*time.Second, cfg.Geo.Timeout)
	require.Equal(t, 10*time.Minute, cfg.Geo.MaximumAge)
	require.Empty(t, cfg.MinIO.Endpoint)
}

func TestLoadConfigMinIO(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_BUCKET", "")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_ACCESS_KEY", "minio")
	t.Setenv("MEDIA_PUBLIC_BASE_URL", "https://cdn.example.org/videos")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "localhost:9000", cfg.MinIO.Endpoint)
	require.Equal(t, "sign-videos", cfg.MinIO.Bucket)
	require.True(t, cfg.MinIO.UseSSL)
	require.Equal(t, "minio", cfg.MinIO.AccessKey)
	require.Equal(t, "https://cdn.example.org/videos", cfg.MinIO.PublicBaseURL)

	t.Setenv("MEDIA_PUBLIC_BASE_URL", "not a url")
	_, err = LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "MEDIA_PUBLIC_BASE_URL")
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "http")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("RATE_LIMIT_BURST", "0")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SERVER_PORT")
	require.Contains(t, err.Error(), "LOG_LEVEL")
	require.Contains(t, err.Error(), "RATE_LIMIT_BURST")
}
