package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Browser    BrowserConfig
	Extraction ExtractionConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Admission  AdmissionConfig
	Log        LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser launched for each extraction.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the upstream proxy URL for the browser.
	Proxy string

	// Locale is the fixed page locale.
	Locale string // default: "fr-FR"

	// Stealth injects anti-bot-detection evasions before navigation.
	Stealth bool // default: true

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// ExtractionConfig controls the extraction pipeline.
type ExtractionConfig struct {
	// PlannerHost is the planner application host. Subdomains are accepted.
	PlannerHost string // default: "kitchen.planner.ikea.com"

	// Strategy is the default parsing strategy: "scoped-dom" or "fulltext-regex".
	Strategy string // default: "fulltext-regex"

	NavigationTimeout time.Duration // default: 30s
	ModalTimeout      time.Duration // default: 30s
	RowTimeout        time.Duration // default: 2s
	SettleDelay       time.Duration // default: 1.5s

	// WaitScoped and WaitFullText are the navigation lifecycle signals used by
	// each strategy: "networkidle" or "domcontentloaded".
	WaitScoped   string // default: "domcontentloaded"
	WaitFullText string // default: "networkidle"

	// FrameSelector locates the iframe hosting the planner. Empty means the
	// top-level page.
	FrameSelector string

	// OpenSelector is the affordance that opens the item list.
	OpenSelector string

	// RowSelector matches one item row inside the modal.
	RowSelector string

	// Catalogue is the ordered list of known product lines.
	Catalogue []string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	// When enabled with no keys, every protected request is rejected.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// AdmissionConfig bounds the number of browser sessions open at once.
type AdmissionConfig struct {
	// MaxSessions is the number of extractions allowed to run concurrently.
	MaxSessions int // default: 2

	// QueueTimeout is how long a request waits for a free slot.
	QueueTimeout time.Duration // default: 10s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultCatalogue lists the kitchen product lines recognised by the
// scoped-dom strategy. Order matters: the first match wins.
var DefaultCatalogue = []string{
	"METOD", "ENHET", "KNOXHULT", "UTRUSTA", "MAXIMERA", "EXCEPTIONELL",
	"VOXTORP", "BODBYN", "KUNGSBACKA", "ASKERSUND", "RINGHULT", "VEDDINGE",
	"HAVSTORP", "AXSTAD", "STENSUND", "LERHYTTAN", "SÄVEDAL", "UPPLÖV",
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("KITCHENSCAN_HOST", "0.0.0.0"),
			Port: envIntOr("KITCHENSCAN_PORT", 8080),
			Mode: envOr("KITCHENSCAN_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("KITCHENSCAN_HEADLESS", true),
			NoSandbox:  envBoolOr("KITCHENSCAN_NO_SANDBOX", false),
			BrowserBin: os.Getenv("KITCHENSCAN_BROWSER_BIN"),
			Proxy:      os.Getenv("KITCHENSCAN_PROXY"),
			Locale:     envOr("KITCHENSCAN_LOCALE", "fr-FR"),
			Stealth:    envBoolOr("KITCHENSCAN_STEALTH", true),
			BlockedResourceTypes: envSliceOr("KITCHENSCAN_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Extraction: ExtractionConfig{
			PlannerHost:       envOr("KITCHENSCAN_PLANNER_HOST", "kitchen.planner.ikea.com"),
			Strategy:          envOr("KITCHENSCAN_STRATEGY", "fulltext-regex"),
			NavigationTimeout: envDurationOr("KITCHENSCAN_NAV_TIMEOUT", 30*time.Second),
			ModalTimeout:      envDurationOr("KITCHENSCAN_MODAL_TIMEOUT", 30*time.Second),
			RowTimeout:        envDurationOr("KITCHENSCAN_ROW_TIMEOUT", 2*time.Second),
			SettleDelay:       envDurationOr("KITCHENSCAN_SETTLE_DELAY", 1500*time.Millisecond),
			WaitScoped:        envOr("KITCHENSCAN_WAIT_SCOPED", "domcontentloaded"),
			WaitFullText:      envOr("KITCHENSCAN_WAIT_FULLTEXT", "networkidle"),
			FrameSelector:     envOr("KITCHENSCAN_FRAME_SELECTOR", `iframe[src*="planner"]`),
			OpenSelector:      envOr("KITCHENSCAN_OPEN_SELECTOR", `[data-testid="summary-item-list-button"]`),
			RowSelector:       envOr("KITCHENSCAN_ROW_SELECTOR", `[data-testid="item-list-row"]`),
			Catalogue:         envSliceOr("KITCHENSCAN_CATALOGUE", DefaultCatalogue),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("KITCHENSCAN_AUTH_ENABLED", true),
			APIKeys: envSliceOr("KITCHENSCAN_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("KITCHENSCAN_RATE_RPS", 1.0),
			Burst:             envIntOr("KITCHENSCAN_RATE_BURST", 3),
		},
		Admission: AdmissionConfig{
			MaxSessions:  envIntOr("KITCHENSCAN_MAX_SESSIONS", 2),
			QueueTimeout: envDurationOr("KITCHENSCAN_QUEUE_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("KITCHENSCAN_LOG_LEVEL", "info"),
			Format: envOr("KITCHENSCAN_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
