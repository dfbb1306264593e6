package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline on API routes

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	CachePath         string        // sqlite file of the local cache, "" or ":memory:" => in-memory
	CatalogFile       string        // optional yaml catalog, empty = built-in titles
	WatchFallbackBase string        // prefix for items without a watch link
	SessionTTL        time.Duration // lifetime of a remote session token
	ResyncInterval    time.Duration // periodic list pull, 0 = disabled
	ReloadInterval    time.Duration // catalog file reload

	AuthRateBurst  int // sign-in/sign-up burst per client
	AuthRatePerMin int // sign-in/sign-up refill per minute

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
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
	AllowedCIDRS []string // optional, restrict infra endpoints to these networks
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		ListenPort:      getenv("VIANIME_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("VIANIME_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("VIANIME_REQUEST_TIMEOUT", 15*time.Second),

		LogLevel:  getenv("VIANIME_LOG_LEVEL", "info"),
		PrettyLog: mustBool("VIANIME_PRETTY_LOG", true),

		CachePath:         getenv("VIANIME_CACHE_PATH", "/data/vianime.db"),
		CatalogFile:       getenv("VIANIME_CATALOG_FILE", ""),
		WatchFallbackBase: getenv("VIANIME_WATCH_FALLBACK_BASE", domain.DefaultWatchFallbackBase),
		SessionTTL:        mustDuration("VIANIME_SESSION_TTL", 30*24*time.Hour),
		ResyncInterval:    mustDuration("VIANIME_RESYNC_INTERVAL", 5*time.Minute),
		ReloadInterval:    mustDuration("VIANIME_RELOAD_INTERVAL", 24*time.Hour),

		AuthRateBurst:  getenvInt("VIANIME_AUTH_RATE_BURST", 5),
		AuthRatePerMin: getenvInt("VIANIME_AUTH_RATE_PER_MIN", 10),

		RedisAddr:             requireEnv("VIANIME_REDIS_ADDR"),
		RedisUser:             getenv("VIANIME_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("VIANIME_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("VIANIME_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("VIANIME_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		AllowedHosts: splitAndTrim(getenv("VIANIME_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("VIANIME_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("VIANIME_TRUST_PROXY", false),
	}

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: VIANIME_REDIS_PASSWORD is required when VIANIME_REDIS_PASSWORD_REQUIRED=true")
	}
	if cfg.AuthRateBurst <= 0 || cfg.AuthRatePerMin <= 0 {
		panic(fmt.Sprintf("❌ FATAL: auth rate limit must be positive (burst=%d, per_min=%d)",
			cfg.AuthRateBurst, cfg.AuthRatePerMin))
	}

	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	if c.RedisUser != "" {
		c.RedisUser = "***REDACTED***"
	}
	return c
}

// InMemoryCache reports whether the local cache should not touch disk.
func (c Config) InMemoryCache() bool {
	return c.CachePath == "" || c.CachePath == ":memory:"
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

func requireEnvInt(key string) int {
	v := requireEnv(key)
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
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
		if b, err := strconv.ParseBool(v); err == nil {
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

// splitAndTrim splits a comma separated list, dropping blanks and quotes.
func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
