package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultAdminPass = "changeme"

type Config struct {
	// Application
	AppName   string
	AppEnv    string
	AppURL    string
	Port      string
	PublicDir string // Optional: static frontend served at /

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Admin fallback identity (not a users row)
	AdminUser  string
	AdminPass  string
	AdminEmail string // Optional: receives pending-signup notifications

	// Uploads
	AllowAnonymousUploads bool
	UploadDir             string
	MaxUploadMB           int
	ThumbWidth            int
	ThumbHeight           int
	ThumbQuality          int

	// Storage backend: "local" (UploadDir) or "s3"
	StorageDriver string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string // Optional: for S3-compatible services (MinIO, R2, etc.)
	S3Prefix      string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:   envString("APP_NAME", "Darkroom"),
		AppEnv:    envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:    envString("APP_URL", "http://localhost:3000"),
		Port:      envString("PORT", "3000"),
		PublicDir: envString("PUBLIC_DIR", ""),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/darkroom.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Sessions
		SessionSecret: envRequired("SESSION_SECRET"),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),

		// Admin
		AdminUser:  envString("ADMIN_USER", "admin"),
		AdminPass:  envString("ADMIN_PASS", defaultAdminPass),
		AdminEmail: envString("ADMIN_EMAIL", ""),

		// Uploads
		AllowAnonymousUploads: envBool("ALLOW_ANONYMOUS_UPLOADS", true),
		UploadDir:             envString("UPLOAD_DIR", "./uploads"),
		MaxUploadMB:           envInt("MAX_UPLOAD_MB", 20),
		ThumbWidth:            envInt("THUMB_WIDTH", 360),
		ThumbHeight:           envInt("THUMB_HEIGHT", 240),
		ThumbQuality:          envInt("THUMB_QUALITY", 75),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", "local"),
		S3Region:      envString("S3_REGION", ""),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""),
		S3Prefix:      envString("S3_PREFIX", "uploads"),

		// Email (RESEND_API_KEY optional in development, emails are logged instead)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.StorageDriver == "s3" {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction refuses configurations that are only acceptable on a developer machine.
func validateProduction(cfg *Config) {
	if cfg.AdminPass == defaultAdminPass {
		slog.Error("production deployment requires ADMIN_PASS to be changed from the default")
		os.Exit(1)
	}
	if cfg.AdminEmail != "" && cfg.ResendAPIKey == "" {
		slog.Error("production deployment with ADMIN_EMAIL requires RESEND_API_KEY",
			"hint", "unset ADMIN_EMAIL to disable signup notifications")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MaxUploadBytes is the multipart body limit for image uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:   c.AppName,
		AppEnv:    c.AppEnv,
		AppURL:    c.AppURL,
		Port:      c.Port,
		PublicDir: c.PublicDir,

		DBDriver: c.DBDriver,

		SessionTTL: c.SessionTTL,
		AdminUser:  c.AdminUser,

		AllowAnonymousUploads: c.AllowAnonymousUploads,
		UploadDir:             c.UploadDir,
		MaxUploadMB:           c.MaxUploadMB,
		ThumbWidth:            c.ThumbWidth,
		ThumbHeight:           c.ThumbHeight,
		ThumbQuality:          c.ThumbQuality,

		StorageDriver: c.StorageDriver,
		S3Region:      c.S3Region,
		S3Bucket:      c.S3Bucket,
		S3Endpoint:    c.S3Endpoint,
		S3Prefix:      c.S3Prefix,

		EmailFrom: c.EmailFrom,
	}
}
