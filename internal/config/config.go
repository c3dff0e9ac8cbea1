package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/viddst/internal/domain"
)

// History backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	ListenPort      string        `yaml:"listen_port"`      // ex: ":8080"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // ex: 5s
	RequestTimeout  time.Duration `yaml:"request_timeout"`  // per-request deadline

	LogLevel      string `yaml:"log_level"`  // "debug" | "info" | "warn" | "error"
	PrettyLog     bool   `yaml:"pretty_log"` // true => zap dev (color), false => zap prod (JSON)
	LogFile       string `yaml:"log_file"`   // optional rotating log file
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`

	EmbedHost string `yaml:"embed_host"` // streaming provider base URL

	HistoryBackend string `yaml:"history_backend"` // "file" | "sqlite" | "redis"
	HistoryFile    string `yaml:"history_file"`    // file backend path
	SQLitePath     string `yaml:"sqlite_path"`     // sqlite backend path

	// Re-read the backend periodically when several instances share it. 0 disables.
	HistoryRefreshInterval time.Duration `yaml:"history_refresh_interval"`

	// Redis (only used by the redis backend)
	RedisAddr             string        `yaml:"redis_addr"` // ex: "localhost:6379"
	RedisUser             string        `yaml:"redis_username"`
	RedisPassword         string        `yaml:"redis_password"`
	RedisPasswordRequired bool          `yaml:"redis_password_required"`
	RedisDB               int           `yaml:"redis_db"`
	RedisDT               time.Duration `yaml:"redis_dial_timeout"`
	RedisRT               time.Duration `yaml:"redis_read_timeout"`
	RedisWT               time.Duration `yaml:"redis_write_timeout"`
	RedisMaxWait          time.Duration `yaml:"redis_max_wait"`
	RedisPingTimeout      time.Duration `yaml:"redis_ping_timeout"`
	RedisPoolSize         int           `yaml:"redis_pool_size"`
	RedisConnectTimeout   time.Duration `yaml:"redis_connect_timeout"`
	RedisRetryInterval    time.Duration `yaml:"redis_retry_interval"`
	RedisWarnThreshold    int           `yaml:"redis_warn_threshold"`

	AllowedHosts []string `yaml:"allowed_hosts"` // optional, restrict access to specific Host headers
	AllowedCIDRS []string `yaml:"allowed_cidrs"` // optional, restrict health endpoints to specific IPs
	TrustProxy   bool     `yaml:"trust_proxy"`   // true => trust X-Forwarded-For headers
	CORSOrigins  []string `yaml:"cors_origins"`  // empty => any origin

	RateBurst  int `yaml:"rate_burst"`   // token bucket size per client IP
	RatePerMin int `yaml:"rate_per_min"` // refill per client IP per minute
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		ListenPort:      ":8080",
		ShutdownTimeout: 5 * time.Second,
		RequestTimeout:  5 * time.Second,

		LogLevel:      "info",
		PrettyLog:     true,
		LogMaxSizeMB:  50,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,

		EmbedHost: domain.DefaultEmbedHost,

		HistoryBackend: BackendFile,
		HistoryFile:    "data/watch_history.json",
		SQLitePath:     "data/viddst.db",

		RedisUser:           "default",
		RedisDT:             5 * time.Second,
		RedisRT:             3 * time.Second,
		RedisWT:             3 * time.Second,
		RedisMaxWait:        10 * time.Second,
		RedisPingTimeout:    5 * time.Second,
		RedisPoolSize:       10,
		RedisConnectTimeout: 30 * time.Second,
		RedisRetryInterval:  2 * time.Second,
		RedisWarnThreshold:  3,

		TrustProxy: true,

		RateBurst:  30,
		RatePerMin: 60,
	}
}

// Load builds the configuration from, in increasing priority:
// built-in defaults, the YAML file named by VIDDST_CONFIG_FILE, and the
// environment (a local .env file is loaded into it first when present).
// Invalid configuration is fatal.
func Load() *Config {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg := Defaults()

	if path := os.Getenv("VIDDST_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			panic(fmt.Sprintf("❌ FATAL: %v", err))
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	switch c.HistoryBackend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("VIDDST_REDIS_ADDR is required when history backend is redis")
		}
		if c.RedisPasswordRequired && c.RedisPassword == "" {
			return fmt.Errorf("VIDDST_REDIS_PASSWORD is required when VIDDST_REDIS_PASSWORD_REQUIRED=true")
		}
	default:
		return fmt.Errorf("unknown history backend %q (want file, sqlite or redis)", c.HistoryBackend)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0, got %v", c.RequestTimeout)
	}
	if c.HistoryRefreshInterval < 0 {
		return fmt.Errorf("history refresh interval must be >= 0, got %v", c.HistoryRefreshInterval)
	}

	if !strings.HasPrefix(c.EmbedHost, "http://") && !strings.HasPrefix(c.EmbedHost, "https://") {
		return fmt.Errorf("embed host must be an http(s) URL, got %q", c.EmbedHost)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	// Server settings
	cfg.ListenPort = getenv("VIDDST_LISTEN_PORT", cfg.ListenPort)
	cfg.ShutdownTimeout = mustDuration("VIDDST_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.RequestTimeout = mustDuration("VIDDST_REQUEST_TIMEOUT", cfg.RequestTimeout)

	// Logging
	cfg.LogLevel = getenv("VIDDST_LOG_LEVEL", cfg.LogLevel)
	cfg.PrettyLog = mustBool("VIDDST_PRETTY_LOG", cfg.PrettyLog)
	cfg.LogFile = getenv("VIDDST_LOG_FILE", cfg.LogFile)
	cfg.LogMaxSizeMB = getenvInt("VIDDST_LOG_MAX_SIZE_MB", cfg.LogMaxSizeMB)
	cfg.LogMaxBackups = getenvInt("VIDDST_LOG_MAX_BACKUPS", cfg.LogMaxBackups)
	cfg.LogMaxAgeDays = getenvInt("VIDDST_LOG_MAX_AGE_DAYS", cfg.LogMaxAgeDays)

	// Provider
	cfg.EmbedHost = strings.TrimSuffix(getenv("VIDDST_EMBED_HOST", cfg.EmbedHost), "/")

	// History persistence
	cfg.HistoryBackend = strings.ToLower(getenv("VIDDST_HISTORY_BACKEND", cfg.HistoryBackend))
	cfg.HistoryFile = getenv("VIDDST_HISTORY_FILE", cfg.HistoryFile)
	cfg.SQLitePath = getenv("VIDDST_SQLITE_PATH", cfg.SQLitePath)
	cfg.HistoryRefreshInterval = mustDuration("VIDDST_HISTORY_REFRESH_INTERVAL", cfg.HistoryRefreshInterval)

	// Redis settings
	cfg.RedisAddr = getenv("VIDDST_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisUser = getenv("VIDDST_REDIS_USERNAME", cfg.RedisUser)
	cfg.RedisPassword = getenv("VIDDST_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisPasswordRequired = mustBool("VIDDST_REDIS_PASSWORD_REQUIRED", cfg.RedisPasswordRequired)
	cfg.RedisDB = getenvInt("VIDDST_REDIS_DB", cfg.RedisDB)
	cfg.RedisDT = mustDuration("VIDDST_REDIS_DIAL_TIMEOUT", cfg.RedisDT)
	cfg.RedisRT = mustDuration("VIDDST_REDIS_READ_TIMEOUT", cfg.RedisRT)
	cfg.RedisWT = mustDuration("VIDDST_REDIS_WRITE_TIMEOUT", cfg.RedisWT)
	cfg.RedisMaxWait = mustDuration("VIDDST_REDIS_MAX_WAIT", cfg.RedisMaxWait)
	cfg.RedisPingTimeout = mustDuration("VIDDST_REDIS_PING_TIMEOUT", cfg.RedisPingTimeout)
	cfg.RedisPoolSize = getenvInt("VIDDST_REDIS_POOL_SIZE", cfg.RedisPoolSize)
	cfg.RedisConnectTimeout = mustDuration("VIDDST_REDIS_CONNECT_TIMEOUT", cfg.RedisConnectTimeout)
	cfg.RedisRetryInterval = mustDuration("VIDDST_REDIS_RETRY_INTERVAL", cfg.RedisRetryInterval)
	cfg.RedisWarnThreshold = getenvInt("VIDDST_REDIS_WARN_THRESHOLD", cfg.RedisWarnThreshold)

	// Access restrictions
	if v := os.Getenv("VIDDST_ALLOWED_HOSTS"); v != "" {
		cfg.AllowedHosts = splitAndTrim(v)
	}
	if v := os.Getenv("VIDDST_ALLOWED_CIDRS"); v != "" {
		cfg.AllowedCIDRS = splitAndTrim(v)
	}
	cfg.TrustProxy = mustBool("VIDDST_TRUST_PROXY", cfg.TrustProxy)
	if v := os.Getenv("VIDDST_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitAndTrim(v)
	}

	// Rate limiting
	cfg.RateBurst = getenvInt("VIDDST_RATE_BURST", cfg.RateBurst)
	cfg.RatePerMin = getenvInt("VIDDST_RATE_PER_MIN", cfg.RatePerMin)
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
