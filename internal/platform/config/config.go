package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	DBMaxConns     int32
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Redis backs the location cache and the rate limiter store. Empty disables both uses.
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	LocationCacheTTL time.Duration

	// MinIO archives distribution manifests. Empty endpoint disables the manifest sink.
	MinioEndpoint     string
	MinioAccessKey    string
	MinioSecretKey    string
	MinioBucket       string
	MinioUseSSL       bool
	ManifestURLExpiry time.Duration

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int

	RateLimit          string
	LoginRateLimit     string
	CORSAllowedOrigins []string
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "dds-backend")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOCATION_CACHE_TTL", "10m")
	viper.SetDefault("MINIO_ENDPOINT", "")
	viper.SetDefault("MINIO_ACCESS_KEY", "")
	viper.SetDefault("MINIO_SECRET_KEY", "")
	viper.SetDefault("MINIO_BUCKET", "distribution-manifests")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("MANIFEST_URL_EXPIRY", "15m")
	viper.SetDefault("OUTBOX_POLL_INTERVAL", "30s")
	viper.SetDefault("OUTBOX_BATCH_SIZE", 50)
	viper.SetDefault("OUTBOX_MAX_ATTEMPTS", 5)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.LocationCacheTTL = durationOrDefault("LOCATION_CACHE_TTL", 10*time.Minute)
	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Location cache disabled and rate limits kept in memory.")
	}

	cfg.MinioEndpoint = viper.GetString("MINIO_ENDPOINT")
	cfg.MinioAccessKey = viper.GetString("MINIO_ACCESS_KEY")
	cfg.MinioSecretKey = viper.GetString("MINIO_SECRET_KEY")
	cfg.MinioBucket = viper.GetString("MINIO_BUCKET")
	cfg.MinioUseSSL = viper.GetBool("MINIO_USE_SSL")
	cfg.ManifestURLExpiry = durationOrDefault("MANIFEST_URL_EXPIRY", 15*time.Minute)
	if cfg.MinioEndpoint == "" {
		log.Println("Warning: MINIO_ENDPOINT not set. Distribution manifests will not be archived.")
	}

	cfg.OutboxPollInterval = durationOrDefault("OUTBOX_POLL_INTERVAL", 30*time.Second)
	cfg.OutboxBatchSize = viper.GetInt("OUTBOX_BATCH_SIZE")
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = 50
	}
	cfg.OutboxMaxAttempts = viper.GetInt("OUTBOX_MAX_ATTEMPTS")
	if cfg.OutboxMaxAttempts <= 0 {
		cfg.OutboxMaxAttempts = 5
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
