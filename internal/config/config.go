package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Log encodings accepted in LOG_FORMAT.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port           string
	StoreBackend   string
	DatabaseURL    string
	SQLitePath     string
	RedisURL       string
	RedisKeyPrefix string
	OpenAIAPIKey   string
	LocalTimezone  *time.Location
	ScanInterval   time.Duration
	AlertTTL       time.Duration
	AlertLookahead time.Duration
	LogLevel       string
	LogFormat      string
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()

	timezoneName := getenvDefault("LOCAL_TIMEZONE", "Local")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Printf("config: invalid LOCAL_TIMEZONE %q, defaulting to system local: %v", timezoneName, err)
		location = time.Local
	}

	backend := strings.ToLower(getenvDefault("STORE_BACKEND", BackendSQL))
	switch backend {
	case BackendSQL, BackendRedis, BackendMemory:
	default:
		log.Printf("config: unknown STORE_BACKEND %q, defaulting to %s", backend, BackendSQL)
		backend = BackendSQL
	}

	level := strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	if _, err := zapcore.ParseLevel(level); err != nil {
		log.Printf("config: invalid LOG_LEVEL %q, defaulting to info: %v", level, err)
		level = "info"
	}

	format := strings.ToLower(getenvDefault("LOG_FORMAT", LogFormatJSON))
	switch format {
	case LogFormatJSON, LogFormatConsole:
	default:
		log.Printf("config: unknown LOG_FORMAT %q, defaulting to %s", format, LogFormatJSON)
		format = LogFormatJSON
	}

	return &Config{
		Port:           getenvDefault("PORT", "8080"),
		StoreBackend:   backend,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getenvDefault("SQLITE_PATH", "reminders.db"),
		RedisURL:       getenvDefault("REDIS_URL", "redis://localhost:6379/0"),
		RedisKeyPrefix: getenvDefault("REDIS_KEY_PREFIX", "mymeds:"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		LocalTimezone:  location,
		ScanInterval:   ParseDurationEnv("SCAN_INTERVAL", time.Minute),
		AlertTTL:       ParseDurationEnv("ALERT_TTL", 10*time.Second),
		AlertLookahead: ParseDurationEnv("ALERT_LOOKAHEAD", 30*time.Minute),
		LogLevel:       level,
		LogFormat:      format,
	}
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// ParseDurationEnv returns a positive duration for an environment variable or the provided default.
func ParseDurationEnv(key string, def time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		log.Printf("config: unable to parse %s=%q as positive duration: %v", key, value, err)
		return def
	}
	return parsed
}
