package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Sync
	SyncSecret         string        // bearer secret required on /sync
	SyncTimeout        time.Duration // deadline for one sync invocation (default: 60s)
	SyncSchedule       string        // optional cron expression, empty = on demand only
	Timezone           string        // display dates and cron evaluation (default: America/Los_Angeles)
	SourceTag          string        // bookmark tag that marks posts to publish (default: "1")
	BaseTag            string        // tag put on every post and used to find them (default: "links")
	DetectCodeLanguage bool          // guess a language for fences that declare none

	// Bookmark source
	RaindropToken   string // required unless BookmarkFile is set
	RaindropURL     string // API base (default: https://api.raindrop.io/rest/v1)
	RaindropPerPage int    // page size for the latest-bookmark query
	BookmarkFile    string // optional YAML file used instead of Raindrop

	// Ghost
	GhostURL      string        // site URL (ex: https://blog.domain.ext)
	GhostAdminKey string        // Admin API key "id:secret"
	GhostVersion  string        // Accept-Version header (default: v5.0)
	HTTPTimeout   time.Duration // outbound HTTP client timeout

	// Redis (optional, empty address = history kept in memory only)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// History
	HistoryRetention time.Duration // sync records older than this are collected (default: 90 days)
	GCInterval       time.Duration // interval to run garbage collection (default: 24h)

	// Access restrictions
	AllowedHosts   []string // optional, restrict access to specific Host headers
	AllowedCIDRS   []string // optional, restrict infra/history to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	SyncRateBurst  int      // per-ip burst on /sync
	SyncRatePerMin int      // per-ip refill on /sync
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKPOST_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKPOST_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKPOST_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKPOST_PRETTY_LOG", true),

		// Sync
		SyncSecret:         requireEnv("LINKPOST_SYNC_SECRET"),
		SyncTimeout:        mustDuration("LINKPOST_SYNC_TIMEOUT", 60*time.Second),
		SyncSchedule:       strings.TrimSpace(getenv("LINKPOST_SYNC_SCHEDULE", "")),
		Timezone:           getenv("LINKPOST_TIMEZONE", "America/Los_Angeles"),
		SourceTag:          getenv("LINKPOST_SOURCE_TAG", "1"),
		BaseTag:            getenv("LINKPOST_BASE_TAG", "links"),
		DetectCodeLanguage: mustBool("LINKPOST_DETECT_CODE_LANGUAGE", false),

		// Bookmark source
		BookmarkFile:    getenv("LINKPOST_BOOKMARK_FILE", ""),
		RaindropToken:   getenv("LINKPOST_RAINDROP_TOKEN", ""),
		RaindropURL:     getenv("LINKPOST_RAINDROP_URL", "https://api.raindrop.io/rest/v1"),
		RaindropPerPage: getenvInt("LINKPOST_RAINDROP_PER_PAGE", 10),

		// Ghost
		GhostURL:      requireEnv("LINKPOST_GHOST_URL"),
		GhostAdminKey: requireEnv("LINKPOST_GHOST_ADMIN_KEY"),
		GhostVersion:  getenv("LINKPOST_GHOST_VERSION", "v5.0"),
		HTTPTimeout:   mustDuration("LINKPOST_HTTP_TIMEOUT", 15*time.Second),

		// Redis settings
		RedisAddr:           getenv("LINKPOST_REDIS_ADDR", ""),
		RedisUser:           getenv("LINKPOST_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("LINKPOST_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("LINKPOST_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// History
		HistoryRetention: mustDuration("LINKPOST_HISTORY_RETENTION", 90*24*time.Hour),
		GCInterval:       mustDuration("LINKPOST_GC_INTERVAL", 24*time.Hour),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("LINKPOST_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   splitAndTrim(getenv("LINKPOST_ALLOWED_CIDRS", "")),
		TrustProxy:     mustBool("LINKPOST_TRUST_PROXY", true),
		SyncRateBurst:  getenvInt("LINKPOST_SYNC_RATE_BURST", 5),
		SyncRatePerMin: getenvInt("LINKPOST_SYNC_RATE_PER_MIN", 10),
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// validate checks rules that span several variables.
func (c *Config) validate() error {
	if c.BookmarkFile == "" && c.RaindropToken == "" {
		return fmt.Errorf("LINKPOST_RAINDROP_TOKEN is required when LINKPOST_BOOKMARK_FILE is not set")
	}
	if c.SyncTimeout <= 0 {
		return fmt.Errorf("LINKPOST_SYNC_TIMEOUT must be > 0, got %v", c.SyncTimeout)
	}
	if c.BaseTag == "" || c.SourceTag == "" {
		return fmt.Errorf("LINKPOST_BASE_TAG and LINKPOST_SOURCE_TAG must not be empty")
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	for _, s := range []*string{&cp.SyncSecret, &cp.RaindropToken, &cp.GhostAdminKey, &cp.RedisPassword} {
		if *s != "" {
			*s = "***REDACTED***"
		}
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
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
