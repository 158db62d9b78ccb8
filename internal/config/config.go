package config

import (
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

	DBPath      string        // path to the SQLite file holding the local tiers (":memory:" allowed)
	SeedFile    string        // optional YAML file of seed groups (empty = built-in defaults)
	CacheMaxAge time.Duration // cache envelope expiry (default: 7 days)
	SearchURL   string        // query prefix for free-text keywords

	SyncInterval    time.Duration // interval between background cloud syncs (default: 15m)
	JanitorInterval time.Duration // interval between cache janitor sweeps (default: 1h)

	// Asset cache (service-worker equivalent). Empty origin disables it.
	AssetOrigin    string   // upstream serving the app's static assets (ex: http://127.0.0.1:9000)
	AssetPaths     []string // same-origin paths to precache on startup
	AssetCacheName string   // cache generation name; bump to invalidate (ex: ws-cache-v1)

	// Redis (remote document store). Empty addr => local-only mode.
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password when redis is configured
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	RateLimitBurst     int // token bucket burst per client IP
	RateLimitPerMinute int // refill per client IP per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("WEBSAVER_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("WEBSAVER_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("WEBSAVER_LOG_LEVEL", "info"),
		PrettyLog: mustBool("WEBSAVER_PRETTY_LOG", true),

		// Local storage and sync behavior
		DBPath:      getenv("WEBSAVER_DB", "websaver.db"),
		SeedFile:    getenv("WEBSAVER_SEED_FILE", ""),
		CacheMaxAge: mustDuration("WEBSAVER_CACHE_MAX_AGE", 7*24*time.Hour),
		SearchURL:   getenv("WEBSAVER_SEARCH_URL", "https://www.google.com/search?q="),

		SyncInterval:    mustDuration("WEBSAVER_SYNC_INTERVAL", 15*time.Minute),
		JanitorInterval: mustDuration("WEBSAVER_JANITOR_INTERVAL", time.Hour),

		// Asset cache
		AssetOrigin:    getenv("WEBSAVER_ASSET_ORIGIN", ""),
		AssetPaths:     splitAndTrim(getenv("WEBSAVER_ASSET_PATHS", "/,/index.html,/style.css,/script.js,/manifest.json")),
		AssetCacheName: getenv("WEBSAVER_ASSET_CACHE_NAME", "ws-cache-v1"),

		// Redis settings (optional: empty addr = local-only mode)
		RedisAddr:             getenv("WEBSAVER_REDIS_ADDR", ""),
		RedisUser:             getenv("WEBSAVER_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("WEBSAVER_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("WEBSAVER_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("WEBSAVER_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("WEBSAVER_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("WEBSAVER_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("WEBSAVER_TRUST_PROXY", false),

		RateLimitBurst:     getenvInt("WEBSAVER_RATE_LIMIT_BURST", 30),
		RateLimitPerMinute: getenvInt("WEBSAVER_RATE_LIMIT_PER_MINUTE", 120),
	}

	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: WEBSAVER_REDIS_PASSWORD is required when WEBSAVER_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RemoteEnabled reports whether the remote document tier is configured.
func (c *Config) RemoteEnabled() bool {
	return c.RedisAddr != ""
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
