package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"

	UploadLocal = "local"
	UploadS3    = "s3"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

type Config struct {
	Port     string
	LogLevel string

	SessionSecret string
	SessionTTL    time.Duration
	SessionStore  string
	CookieSecure  bool

	UserStore     string
	DbURL         string
	MongoURI      string
	MongoDatabase string

	UploadBackend  string
	UploadDir      string
	UploadMaxBytes int64
	S3             S3Config

	CaptchaLength      int
	BcryptCost         int
	RateLimit          int
	AuthRateLimit      int
	CORSAllowedOrigins []string
}

// Load reads the configuration from a .env file or environment variables and returns a Config struct.
// All problems are collected and returned together.
func Load() (*Config, error) {
	// Try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	var errs []string

	cfg := &Config{
		Port:     getOptionalEnv("PORT", "3000"),
		LogLevel: getOptionalEnv("LOG_LEVEL", "info"),

		SessionSecret: getRequiredEnv("SESSION_SECRET", &errs),
		SessionTTL:    getOptionalEnvDuration("SESSION_TTL", 24*time.Hour, &errs),
		SessionStore:  strings.ToLower(getOptionalEnv("SESSION_STORE", StoreMemory)),
		CookieSecure:  getOptionalEnvBool("COOKIE_SECURE", false, &errs),

		UserStore:     strings.ToLower(getOptionalEnv("USER_STORE", StorePostgres)),
		DbURL:         os.Getenv("DATABASE_URL"),
		MongoURI:      getOptionalEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getOptionalEnv("MONGO_DATABASE", "user_portal"),

		UploadBackend:  strings.ToLower(getOptionalEnv("UPLOAD_BACKEND", UploadLocal)),
		UploadDir:      getOptionalEnv("UPLOAD_DIR", "./public/uploads"),
		UploadMaxBytes: int64(getOptionalEnvInt("UPLOAD_MAX_BYTES", 10<<20, &errs)),
		S3: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    getOptionalEnv("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},

		CaptchaLength:      getOptionalEnvInt("CAPTCHA_LENGTH", 6, &errs),
		BcryptCost:         getOptionalEnvInt("BCRYPT_COST", 12, &errs),
		RateLimit:          getOptionalEnvInt("RATE_LIMIT", 100, &errs),
		AuthRateLimit:      getOptionalEnvInt("AUTH_RATE_LIMIT", 10, &errs),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	switch cfg.UserStore {
	case StorePostgres, StoreMongo:
	default:
		errs = append(errs, fmt.Sprintf("invalid USER_STORE %q: expected postgres or mongo", cfg.UserStore))
	}

	switch cfg.SessionStore {
	case StoreMemory, StorePostgres:
	default:
		errs = append(errs, fmt.Sprintf("invalid SESSION_STORE %q: expected memory or postgres", cfg.SessionStore))
	}

	if cfg.NeedsPostgres() && cfg.DbURL == "" {
		errs = append(errs, "missing required environment variable: DATABASE_URL")
	}

	switch cfg.UploadBackend {
	case UploadLocal:
	case UploadS3:
		if cfg.S3.Bucket == "" {
			errs = append(errs, "missing required environment variable: S3_BUCKET")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid UPLOAD_BACKEND %q: expected local or s3", cfg.UploadBackend))
	}

	if cfg.CaptchaLength < 4 || cfg.CaptchaLength > 10 {
		errs = append(errs, fmt.Sprintf("invalid CAPTCHA_LENGTH %d: expected 4..10", cfg.CaptchaLength))
	}

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		errs = append(errs, fmt.Sprintf("invalid BCRYPT_COST %d: expected 4..31", cfg.BcryptCost))
	}

	if cfg.RateLimit < 1 || cfg.AuthRateLimit < 1 {
		errs = append(errs, "invalid RATE_LIMIT or AUTH_RATE_LIMIT: expected a positive integer")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// NeedsPostgres reports whether any configured store lives in PostgreSQL.
func (c *Config) NeedsPostgres() bool {
	return c.UserStore == StorePostgres || c.SessionStore == StorePostgres
}

func getRequiredEnv(key string, errs *[]string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got %q", key, raw))
		return defaultValue
	}
	return v
}

func getOptionalEnvBool(key string, defaultValue bool, errs *[]string) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected boolean, got %q", key, raw))
		return defaultValue
	}
	return v
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration, got %q", key, raw))
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
