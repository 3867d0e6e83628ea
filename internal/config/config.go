package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/glosario-lsc/glosario/internal/storage"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	esTranslations "github.com/go-playground/validator/v10/translations/es"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Geo       GeoConfig
	MinIO     *storage.MinIOConfig
	LogLevel  string `env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error fatal"`
}

type ServerConfig struct {
	Port         string        `env:"SERVER_PORT" validate:"required,numeric"`
	Host         string        `env:"SERVER_HOST"`
	Environment  string        `env:"SERVER_ENVIRONMENT" validate:"oneof=development test production"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" validate:"gt=0"`
	// MaxUploadBytes caps a single sign upload.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" validate:"gt=0"`
}

// MongoDBConfig: an empty URI selects the in-memory store.
type MongoDBConfig struct {
	URI      string        `env:"MONGODB_URI" validate:"omitempty,uri"`
	Database string        `env:"MONGODB_DATABASE" validate:"required_with=URI"`
	Timeout  time.Duration `env:"MONGODB_TIMEOUT" validate:"gt=0"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" validate:"required_with=Host"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" validate:"gte=0"`
}

// Addr is "host:port", or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled       bool    `env:"RATE_LIMIT_ENABLED"`
	UseRedis      bool    `env:"RATE_LIMIT_USE_REDIS"`
	RPS           float64 `env:"RATE_LIMIT_RPS" validate:"gt=0"`
	Burst         int     `env:"RATE_LIMIT_BURST" validate:"gt=0"`
	WindowSeconds int     `env:"RATE_LIMIT_WINDOW_SECONDS" validate:"gt=0"`
}

type CacheConfig struct {
	SnapshotTTL time.Duration `env:"SNAPSHOT_CACHE_TTL" validate:"gte=0"`
	// SnapshotMaxAge is how long a process reuses its loaded snapshot before
	// reading the store again. Zero reloads on every request.
	SnapshotMaxAge time.Duration `env:"SNAPSHOT_MAX_AGE" validate:"gte=0"`
}

type GeoConfig struct {
	CityRadiusKm float64       `env:"CITY_RADIUS_KM" validate:"gt=0"`
	Timeout      time.Duration `env:"GEO_TIMEOUT" validate:"gt=0"`
	MaximumAge   time.Duration `env:"GEO_MAXIMUM_AGE" validate:"gte=0"`
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5001")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	v.SetDefault("MAX_UPLOAD_BYTES", 50<<20)
	v.SetDefault("MONGODB_DATABASE", "glosario")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 2)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("SNAPSHOT_CACHE_TTL", 300)
	v.SetDefault("SNAPSHOT_MAX_AGE", 2)
	v.SetDefault("CITY_RADIUS_KM", 50)
	v.SetDefault("GEO_TIMEOUT", 10)
	v.SetDefault("GEO_MAXIMUM_AGE", 600)
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "sign-videos")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:    time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout:   time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
			MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Cache: CacheConfig{
			SnapshotTTL:    time.Duration(v.GetInt("SNAPSHOT_CACHE_TTL")) * time.Second,
			SnapshotMaxAge: time.Duration(v.GetInt("SNAPSHOT_MAX_AGE")) * time.Second,
		},
		Geo: GeoConfig{
			CityRadiusKm: v.GetFloat64("CITY_RADIUS_KM"),
			Timeout:      time.Duration(v.GetInt("GEO_TIMEOUT")) * time.Second,
			MaximumAge:   time.Duration(v.GetInt("GEO_MAXIMUM_AGE")) * time.Second,
		},
		MinIO: &storage.MinIOConfig{
			Endpoint:      v.GetString("MINIO_ENDPOINT"),
			AccessKey:     v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:        v.GetBool("MINIO_USE_SSL"),
			Bucket:        v.GetString("MINIO_BUCKET"),
			PublicBaseURL: v.GetString("MEDIA_PUBLIC_BASE_URL"),
		},
		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg and reports every violation by its env variable name.
func Validate(cfg *Config) error {
	validate, trans, err := newValidator()
	if err != nil {
		return err
	}
	if err := validate.Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validate config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, e.Translate(trans))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	esLocale := es.New()
	uni := ut.New(esLocale, esLocale)
	trans, _ := uni.GetTranslator("es")
	if err := esTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return validate, trans, nil
}
