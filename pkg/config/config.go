package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Embargo  EmbargoConfig
	Cron     CronConfig
	Feed     FeedConfig
	Uploads  UploadsConfig
	Payments PaymentsConfig
	Exports  ExportsConfig
	OAuth    OAuthConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
	Issuer            string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EmbargoConfig governs the exclusivity window applied to EXCLUSIVE reports.
type EmbargoConfig struct {
	Duration time.Duration
}

// CronConfig secures and schedules the embargo sweeper.
type CronConfig struct {
	Secret        string
	SweepInterval time.Duration
	SweepEnabled  bool
}

// FeedConfig tunes public feed caching.
type FeedConfig struct {
	CacheTTL time.Duration
}

// UploadsConfig controls the upload collaborator seam.
type UploadsConfig struct {
	StorageDir       string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// PaymentsConfig configures the payment gateway collaborator.
type PaymentsConfig struct {
	SecretKey  string
	ConfirmURL string
	Sandbox    bool
	Timeout    time.Duration
}

// ExportsConfig configures asynchronous review-queue exports.
type ExportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// OAuthProvider holds the credentials for one identity provider.
type OAuthProvider struct {
	ClientID     string
	ClientSecret string
}

// OAuthConfig lists the supported social login providers.
type OAuthConfig struct {
	Google OAuthProvider
	Kakao  OAuthProvider
	Naver  OAuthProvider
}

// EnabledProviders returns the names of providers with credentials
// configured. Logins through any other provider are rejected.
func (c OAuthConfig) EnabledProviders() []string {
	var names []string
	if c.Google.ClientID != "" {
		names = append(names, "GOOGLE")
	}
	if c.Kakao.ClientID != "" {
		names = append(names, "KAKAO")
	}
	if c.Naver.ClientID != "" {
		names = append(names, "NAVER")
	}
	return names
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
		Issuer:            v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Embargo = EmbargoConfig{
		Duration: parseDuration(v.GetString("EMBARGO_DURATION"), 48*time.Hour),
	}

	cfg.Cron = CronConfig{
		Secret:        v.GetString("CRON_SECRET"),
		SweepInterval: parseDuration(v.GetString("EMBARGO_SWEEP_INTERVAL"), 10*time.Minute),
		SweepEnabled:  v.GetBool("EMBARGO_SWEEP_ENABLED"),
	}

	cfg.Feed = FeedConfig{
		CacheTTL: parseDuration(v.GetString("FEED_CACHE_TTL"), time.Minute),
	}

	maxUploadSize := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 20 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		StorageDir:       v.GetString("UPLOADS_STORAGE_DIR"),
		SignedURLSecret:  v.GetString("UPLOADS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("UPLOADS_SIGNED_URL_TTL"), 24*time.Hour),
		MaxFileSizeBytes: maxUploadSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("UPLOADS_ALLOWED_MIME_TYPES")),
	}

	cfg.Payments = PaymentsConfig{
		SecretKey:  v.GetString("PAYMENTS_SECRET_KEY"),
		ConfirmURL: v.GetString("PAYMENTS_CONFIRM_URL"),
		Sandbox:    v.GetBool("PAYMENTS_SANDBOX"),
		Timeout:    parseDuration(v.GetString("PAYMENTS_TIMEOUT"), 10*time.Second),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
	}

	cfg.OAuth = OAuthConfig{
		Google: OAuthProvider{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		},
		Kakao: OAuthProvider{
			ClientID:     v.GetString("KAKAO_CLIENT_ID"),
			ClientSecret: v.GetString("KAKAO_CLIENT_SECRET"),
		},
		Naver: OAuthProvider{
			ClientID:     v.GetString("NAVER_CLIENT_ID"),
			ClientSecret: v.GetString("NAVER_CLIENT_SECRET"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "jeboro")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")
	v.SetDefault("JWT_ISSUER", "jeboro-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EMBARGO_DURATION", "48h")
	v.SetDefault("CRON_SECRET", "")
	v.SetDefault("EMBARGO_SWEEP_INTERVAL", "10m")
	v.SetDefault("EMBARGO_SWEEP_ENABLED", true)

	v.SetDefault("FEED_CACHE_TTL", "1m")

	v.SetDefault("UPLOADS_STORAGE_DIR", "./uploads")
	v.SetDefault("UPLOADS_SIGNED_URL_SECRET", "dev_uploads_secret")
	v.SetDefault("UPLOADS_SIGNED_URL_TTL", "24h")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 20*1024*1024)
	v.SetDefault("UPLOADS_ALLOWED_MIME_TYPES", "image/jpeg,image/png,audio/webm,audio/mpeg,application/pdf")

	v.SetDefault("PAYMENTS_SECRET_KEY", "")
	v.SetDefault("PAYMENTS_CONFIRM_URL", "https://api.tosspayments.com/v1/payments/confirm")
	v.SetDefault("PAYMENTS_SANDBOX", true)
	v.SetDefault("PAYMENTS_TIMEOUT", "10s")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("KAKAO_CLIENT_ID", "")
	v.SetDefault("KAKAO_CLIENT_SECRET", "")
	v.SetDefault("NAVER_CLIENT_ID", "")
	v.SetDefault("NAVER_CLIENT_SECRET", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
