package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Offer backend
	APIURL     string        // base URL of the offers/share API (ex: http://localhost:5001)
	APITimeout time.Duration // per request
	PublicURL  string        // origin used in share links, empty = derived from the request

	// Session snapshots
	StoreBackend string        // "redis" | "sqlite" | "memory"
	SQLitePath   string        // database file for the sqlite backend
	SessionTTL   time.Duration // untouched snapshots older than this are dropped
	CookieName   string        // session cookie
	CookieSecure bool          // set the Secure flag on the session cookie
	GCInterval   time.Duration // sweep interval for sqlite/memory backends

	// Filter catalog
	CatalogFile           string        // optional YAML file, empty = built-in catalog
	CatalogReloadInterval time.Duration // periodic re-read of CatalogFile

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
	AllowedCIDRS []string // optional, restrict readyz/reload to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// Per-IP limit on routes that reach the offer backend
	RateLimitBurst       int
	RateLimitRefillPerMn int
}

// Load reads a .env file from the working directory (if any) and then the
// environment. Invalid combinations panic, as a misconfigured process must
// not start.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NETCOMPARE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NETCOMPARE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("NETCOMPARE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NETCOMPARE_PRETTY_LOG", true),

		// Offer backend
		APIURL:     strings.TrimRight(getenv("NETCOMPARE_API_URL", "http://localhost:5001"), "/"),
		APITimeout: mustDuration("NETCOMPARE_API_TIMEOUT", 30*time.Second),
		PublicURL:  strings.TrimRight(getenv("NETCOMPARE_PUBLIC_URL", ""), "/"),

		// Session snapshots
		StoreBackend: strings.ToLower(getenv("NETCOMPARE_STORE_BACKEND", BackendSQLite)),
		SQLitePath:   getenv("NETCOMPARE_SQLITE_PATH", defaultStatePath()),
		SessionTTL:   mustDuration("NETCOMPARE_SESSION_TTL", 30*24*time.Hour),
		CookieName:   getenv("NETCOMPARE_COOKIE_NAME", "netcompare_session"),
		CookieSecure: mustBool("NETCOMPARE_COOKIE_SECURE", false),
		GCInterval:   mustDuration("NETCOMPARE_GC_INTERVAL", time.Hour),

		// Filter catalog
		CatalogFile:           getenv("NETCOMPARE_CATALOG_FILE", ""),
		CatalogReloadInterval: mustDuration("NETCOMPARE_CATALOG_RELOAD_INTERVAL", time.Hour),

		// Redis settings
		RedisUser:             getenv("NETCOMPARE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("NETCOMPARE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("NETCOMPARE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("NETCOMPARE_REDIS_DB", 0),
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
		AllowedHosts: splitAndTrim(getenv("NETCOMPARE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("NETCOMPARE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("NETCOMPARE_TRUST_PROXY", false),

		RateLimitBurst:       getenvInt("NETCOMPARE_RATE_LIMIT_BURST", 10),
		RateLimitRefillPerMn: getenvInt("NETCOMPARE_RATE_LIMIT_PER_MINUTE", 30),
	}

	switch cfg.StoreBackend {
	case BackendRedis:
		cfg.RedisAddr = requireEnv("NETCOMPARE_REDIS_ADDR")
	case BackendSQLite, BackendMemory:
		cfg.RedisAddr = getenv("NETCOMPARE_REDIS_ADDR", "")
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown NETCOMPARE_STORE_BACKEND %q (want redis, sqlite or memory)", cfg.StoreBackend))
	}

	// Validate Redis password configuration
	if cfg.StoreBackend == BackendRedis && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: NETCOMPARE_REDIS_PASSWORD is required when NETCOMPARE_REDIS_PASSWORD_REQUIRED=true")
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

// defaultStatePath is the per-user sqlite file, falling back to the
// working directory when no config dir is known.
func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "netcompare.db"
	}
	return filepath.Join(dir, "netcompare", "state.db")
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
