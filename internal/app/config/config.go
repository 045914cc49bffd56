// Package config aggregates the environment configuration of the server and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"resume_optimizer/internal/feature/resumeanalysis/adapters/openrouter"
	"resume_optimizer/internal/platform/cache"
	"resume_optimizer/internal/platform/db"
	jwtmw "resume_optimizer/internal/platform/jwt"
	"resume_optimizer/internal/platform/redis"
)

const (
	// ProviderGemini calls the Gemini API through the genai SDK.
	ProviderGemini = "gemini"
	// ProviderOpenRouter calls an OpenAI-compatible chat completions endpoint.
	ProviderOpenRouter = "openrouter"

	defaultPort         = "8080"
	defaultModelTimeout = 60 * time.Second
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full application configuration.
type Config struct {
	GoogleAPIKey   string // server-side key; requests may supply their own
	Provider       string // gemini or openrouter
	GeminiBaseURL  string // overrides the Gemini endpoint (tests, proxies)
	ModelTimeout   time.Duration
	OpenRouter     openrouter.Config
	CallsPerMinute int // 0 disables the outbound throttle
	Redis          redis.Config
	CacheTTL       time.Duration
	DB             db.Config
	VisionOCR      bool
	JWTSecret      string // empty leaves /v1 open
	Port           string
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		GoogleAPIKey:  os.Getenv("GOOGLE_API_KEY"),
		Provider:      strings.ToLower(envOr("LLM_PROVIDER", ProviderGemini)),
		GeminiBaseURL: os.Getenv("GEMINI_API_BASE"),
		ModelTimeout:  defaultModelTimeout,
		OpenRouter:    openrouter.LoadConfig(),
		Redis:         redis.LoadConfig(),
		DB:            db.LoadConfigFromEnv(),
		JWTSecret:     os.Getenv(jwtmw.EnvKeyJWTSecret),
		Port:          envOr("PORT", defaultPort),
	}

	if cfg.Provider != ProviderGemini && cfg.Provider != ProviderOpenRouter {
		return Config{}, fmt.Errorf("%w: LLM_PROVIDER must be %q or %q, got %q", ErrInvalidConfig, ProviderGemini, ProviderOpenRouter, cfg.Provider)
	}

	var err error
	if cfg.CallsPerMinute, err = intEnv("MODEL_CALLS_PER_MINUTE", 0); err != nil {
		return Config{}, err
	}
	if cfg.CallsPerMinute < 0 {
		return Config{}, fmt.Errorf("%w: MODEL_CALLS_PER_MINUTE must not be negative", ErrInvalidConfig)
	}
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", cache.DefaultTTL); err != nil {
		return Config{}, err
	}
	if cfg.VisionOCR, err = boolEnv("VISION_OCR_ENABLED", false); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}
	return b, nil
}
