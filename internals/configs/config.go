package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the typed view over the process environment.
type Config struct {
	Port    string
	AppEnv  string
	LogMode string

	DatabaseURL string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	JWTSecret string
	JWTTTL    time.Duration

	SupabaseURL       string
	StorageDriver     string
	StorageBucket     string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	ImageWebP         bool

	RedisURL     string
	RoleCacheTTL time.Duration

	CORSOrigins   string
	InsertTimeout time.Duration

	DraftTTL            time.Duration
	BlockWhileUploading bool

	UploadReaperSchedule string
	UploadRetention      time.Duration
	UploadReaperDryRun   bool

	BlacklistTTL   time.Duration
	MetricsEnabled bool
}

// =======================
// ENV LOADER
// =======================

// LoadEnv reads .env when present. Deployments that inject env directly may skip the file.
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		log.Println("running on Railway, using system ENV")
	} else if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using system ENV")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetEnvBool(key string, def bool) bool {
	switch strings.ToLower(GetEnv(key)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func GetEnvInt(key string, def int) int {
	n, err := strconv.Atoi(GetEnv(key))
	if err != nil {
		return def
	}
	return n
}

// GetEnvDuration accepts Go durations ("30s") or bare seconds ("30").
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

// Load builds Config from the environment. Call LoadEnv first to pick up .env.
func Load() Config {
	cfg := Config{
		Port:    GetEnv("PORT", "8080"),
		AppEnv:  GetEnv("APP_ENV", "development"),
		LogMode: GetEnv("LOG_MODE"),

		DatabaseURL: GetEnv("DATABASE_URL"),
		DBUser:      GetEnv("DB_USER"),
		DBPassword:  GetEnv("DB_PASSWORD"),
		DBHost:      GetEnv("DB_HOST"),
		DBPort:      GetEnv("DB_PORT", "5432"),
		DBName:      GetEnv("DB_NAME", "postgres"),
		DBSSLMode:   GetEnv("DB_SSLMODE", "require"),

		JWTSecret: GetEnv("JWT_SECRET"),
		JWTTTL:    GetEnvDuration("JWT_TTL", 24*time.Hour),

		SupabaseURL:       strings.TrimRight(GetEnv("SUPABASE_URL"), "/"),
		StorageDriver:     GetEnv("STORAGE_DRIVER", "s3"),
		StorageBucket:     GetEnv("STORAGE_BUCKET", "files"),
		S3Endpoint:        GetEnv("S3_ENDPOINT"),
		S3Region:          GetEnv("S3_REGION", "us-east-1"),
		S3AccessKeyID:     GetEnv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: GetEnv("S3_SECRET_ACCESS_KEY"),
		ImageWebP:         GetEnvBool("IMAGE_WEBP", false),

		RedisURL:     GetEnv("REDIS_URL"),
		RoleCacheTTL: GetEnvDuration("ROLE_CACHE_TTL", 5*time.Minute),

		CORSOrigins:   GetEnv("CORS_ORIGINS", "http://localhost:3000"),
		InsertTimeout: GetEnvDuration("INSERT_TIMEOUT", 30*time.Second),

		DraftTTL:            GetEnvDuration("DRAFT_TTL", 2*time.Hour),
		BlockWhileUploading: GetEnvBool("FORM_BLOCK_WHILE_UPLOADING", true),

		UploadReaperSchedule: GetEnv("UPLOAD_REAPER_SCHEDULE", "15 2 * * *"),
		UploadRetention:      GetEnvDuration("UPLOAD_RETENTION", 24*time.Hour),
		UploadReaperDryRun:   GetEnvBool("UPLOAD_REAPER_DRY_RUN", false),

		BlacklistTTL:   time.Duration(GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)) * 24 * time.Hour,
		MetricsEnabled: GetEnvBool("METRICS_ENABLED", true),
	}
	if cfg.LogMode == "" {
		cfg.LogMode = cfg.AppEnv
	}
	if cfg.S3Endpoint == "" && cfg.SupabaseURL != "" {
		cfg.S3Endpoint = cfg.SupabaseURL + "/storage/v1/s3"
	}
	return cfg
}

// Validate rejects settings that contradict each other. A live draft must never outlast the
// retention window, or the reaper deletes its pending uploads.
func (c Config) Validate() error {
	if c.UploadRetention > 0 && c.DraftTTL >= c.UploadRetention {
		return fmt.Errorf("DRAFT_TTL (%s) must be shorter than UPLOAD_RETENTION (%s)", c.DraftTTL, c.UploadRetention)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production") || strings.EqualFold(c.AppEnv, "prod")
}

// Origins splits CORS_ORIGINS on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
