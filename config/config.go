package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Code store: the JSON file is the default backend, DATABASE_URL switches to Postgres
	CodeDBFile  string
	DatabaseURL string

	// Code shape
	CodePrefix    string
	CodeLength    int
	CodeGroupSize int

	// Pages and assets
	TemplatesDir   string
	StaticDir      string
	CommandsFile   string
	AllowedOrigins string

	// Shared secret the bot uses to push guild/member counters
	BotServiceToken string

	// Background jobs (0 disables)
	ReconcileInterval time.Duration
	BackupInterval    time.Duration

	// Cloudflare R2 backups
	CloudflareAccountID string
	R2AccessKeyID       string
	R2AccessKeySecret   string
	R2BucketName        string

	// Requests per minute per IP on /api/generate_sock (0 disables)
	GenerateRateLimit int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: strings.ToLower(getEnv("ENVIRONMENT", "development")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		CodeDBFile:  getEnv("CODE_DB_FILE", "xmas_dynamic.json"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		CodePrefix:    getEnv("CODE_PREFIX", "SOCK"),
		CodeLength:    getIntEnv("CODE_LENGTH", 8),
		CodeGroupSize: getIntEnv("CODE_GROUP_SIZE", 4),

		TemplatesDir:   getEnv("TEMPLATES_DIR", "templates"),
		StaticDir:      getEnv("STATIC_DIR", "static"),
		CommandsFile:   getEnv("COMMANDS_FILE", "commands.yaml"),
		AllowedOrigins: normalizeOrigins(getEnv("ALLOWED_ORIGINS", "*")),

		BotServiceToken: getEnv("BOT_SERVICE_TOKEN", ""),

		ReconcileInterval: getDurationEnv("RECONCILE_INTERVAL", time.Minute),
		BackupInterval:    getDurationEnv("BACKUP_INTERVAL", 15*time.Minute),

		CloudflareAccountID: getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
		R2AccessKeyID:       getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret:   getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:        getEnv("R2_BUCKET_NAME", ""),

		GenerateRateLimit: getIntEnv("GENERATE_RATE_LIMIT", 30),
	}
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// BackupEnabled reports whether enough R2 settings are present to upload snapshots.
func (c *Config) BackupEnabled() bool {
	return c.R2BucketName != "" && c.CloudflareAccountID != "" && c.BackupInterval > 0
}

// normalizeOrigins trims spaces around each comma-separated origin.
func normalizeOrigins(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("90s") or bare seconds ("90").
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
