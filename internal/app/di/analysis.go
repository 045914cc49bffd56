// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"resume_optimizer/internal/app/config"
	"resume_optimizer/internal/feature/resumeanalysis/adapters/gemini"
	"resume_optimizer/internal/feature/resumeanalysis/adapters/openrouter"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
	"resume_optimizer/internal/platform/cache"
	infrahttp "resume_optimizer/internal/platform/http"
	"resume_optimizer/internal/shared/ratelimiter"
)

// NewClientFactory returns the model client factory for the configured provider
// together with the model priority list it should be driven with.
func NewClientFactory(cfg config.Config) (usecase.ClientFactory, []string) {
	if cfg.Provider == config.ProviderOpenRouter {
		httpClient := infrahttp.NewModelClient(cfg.OpenRouter.Timeout)
		return openrouter.NewClientFactory(cfg.OpenRouter, httpClient), cfg.OpenRouter.Models
	}
	httpClient := infrahttp.NewModelClient(cfg.ModelTimeout)
	return gemini.NewClientFactory(httpClient, cfg.GeminiBaseURL), usecase.ModelPriority
}

// NewAnalyzer creates the retrying analyzer, throttled when MODEL_CALLS_PER_MINUTE is set
// and memoized in Redis when rdb is non-nil.
func NewAnalyzer(cfg config.Config, rdb *redis.Client) usecase.Analyzer {
	factory, models := NewClientFactory(cfg)

	opts := []usecase.Option{usecase.WithModels(models...)}
	if cfg.CallsPerMinute > 0 {
		opts = append(opts, usecase.WithWaiter(ratelimiter.NewRateLimiter(cfg.CallsPerMinute, time.Minute)))
	}

	return cache.NewCachingAnalyzer(rdb, cfg.CacheTTL, usecase.NewAnalyzer(factory, opts...), cache.DefaultNamespace)
}
