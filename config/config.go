package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Renderer  RendererConfig
	Colors    ColorConfig
	Logo      LogoConfig
	Summarize SummarizeConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 10

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// RendererConfig controls page rendering behavior.
type RendererConfig struct {
	// DefaultTimeout is the per-request rendering timeout.
	DefaultTimeout time.Duration // default: 30s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 120s

	// SettleWait is the pause after DOM stability before capturing the
	// snapshot, letting late images and fonts finish painting.
	SettleWait time.Duration // default: 1s

	// Stealth toggles stealth JS injection before navigation.
	Stealth bool // default: true
}

// ColorConfig controls the dominant-color pipeline.
type ColorConfig struct {
	// Clusters is the k-means cluster count for screenshot colors.
	Clusters int // default: 8

	// Restarts is the number of k-means restarts; the restart with the
	// lowest inertia wins.
	Restarts int // default: 10

	// MaxIterations caps Lloyd iterations per restart.
	MaxIterations int // default: 100

	// Seed is the base RNG seed, fixed for reproducible palettes.
	Seed int64 // default: 42
}

// LogoConfig controls logo detection and its acceptance contract.
type LogoConfig struct {
	// Enabled toggles the Cloud Vision detector. When false (or when the
	// client cannot be built) the logo task always yields its fallback.
	Enabled bool // default: true

	// MinConfidence rejects detections at or below this score.
	MinConfidence float64 // default: 0.15

	// MaxAreaFraction rejects boxes covering more than this fraction of
	// the screenshot (a "logo" spanning half the page is a false hit).
	MaxAreaFraction float64 // default: 0.5

	// MinEdgePx rejects boxes narrower or shorter than this.
	MinEdgePx int // default: 40
}

// SummarizeConfig controls the text summarizer collaborator.
type SummarizeConfig struct {
	// APIKey authenticates against the OpenAI-compatible endpoint.
	// Empty disables the model path; heuristics are used directly.
	APIKey string

	// Model is the chat model name.
	Model string // default: "mistral-small-latest"

	// BaseURL is the OpenAI-compatible API root.
	BaseURL string // default: "https://api.mistral.ai/v1"

	// MaxChars bounds the cleaned text sent to the model.
	MaxChars int // default: 8000
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("BRANDLENS_HOST", "0.0.0.0"),
			Port: envIntOr("BRANDLENS_PORT", 8080),
			Mode: envOr("BRANDLENS_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("BRANDLENS_HEADLESS", true),
			MaxPages:   envIntOr("BRANDLENS_MAX_PAGES", 10),
			NoSandbox:  envBoolOr("BRANDLENS_NO_SANDBOX", false),
			BrowserBin: os.Getenv("BRANDLENS_BROWSER_BIN"),
		},
		Renderer: RendererConfig{
			DefaultTimeout: envDurationOr("BRANDLENS_DEFAULT_TIMEOUT", 30*time.Second),
			MaxTimeout:     envDurationOr("BRANDLENS_MAX_TIMEOUT", 120*time.Second),
			SettleWait:     envDurationOr("BRANDLENS_SETTLE_WAIT", time.Second),
			Stealth:        envBoolOr("BRANDLENS_STEALTH", true),
		},
		Colors: ColorConfig{
			Clusters:      envIntOr("BRANDLENS_COLOR_CLUSTERS", 8),
			Restarts:      envIntOr("BRANDLENS_COLOR_RESTARTS", 10),
			MaxIterations: envIntOr("BRANDLENS_COLOR_MAX_ITER", 100),
			Seed:          int64(envIntOr("BRANDLENS_COLOR_SEED", 42)),
		},
		Logo: LogoConfig{
			Enabled:         envBoolOr("BRANDLENS_LOGO_ENABLED", true),
			MinConfidence:   envFloatOr("BRANDLENS_LOGO_MIN_CONFIDENCE", 0.15),
			MaxAreaFraction: envFloatOr("BRANDLENS_LOGO_MAX_AREA", 0.5),
			MinEdgePx:       envIntOr("BRANDLENS_LOGO_MIN_EDGE", 40),
		},
		Summarize: SummarizeConfig{
			APIKey:   os.Getenv("BRANDLENS_LLM_API_KEY"),
			Model:    envOr("BRANDLENS_LLM_MODEL", "mistral-small-latest"),
			BaseURL:  envOr("BRANDLENS_LLM_BASE_URL", "https://api.mistral.ai/v1"),
			MaxChars: envIntOr("BRANDLENS_LLM_MAX_CHARS", 8000),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("BRANDLENS_AUTH_ENABLED", false),
			APIKeys: envSliceOr("BRANDLENS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("BRANDLENS_RATE_RPS", 5.0),
			Burst:             envIntOr("BRANDLENS_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("BRANDLENS_LOG_LEVEL", "info"),
			Format: envOr("BRANDLENS_LOG_FORMAT", "json"),
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
