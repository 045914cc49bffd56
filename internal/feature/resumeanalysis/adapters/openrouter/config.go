// Package openrouter provides an OpenAI-compatible chat completions client for OpenRouter.
package openrouter

import (
	"os"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModels is the model priority list used when OPENROUTER_MODELS is unset.
	DefaultModels = "google/gemini-2.0-flash-001,google/gemini-flash-1.5"
)

// Config holds configuration for the OpenRouter client.
type Config struct {
	BaseURL string        // API root, e.g. "https://openrouter.ai/api/v1"
	Models  []string      // model ids in priority order
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads OpenRouter configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("OPENROUTER_API_BASE")
	if base == "" {
		base = DefaultBaseURL
	}
	models := os.Getenv("OPENROUTER_MODELS")
	if models == "" {
		models = DefaultModels
	}
	return Config{
		BaseURL: strings.TrimRight(base, "/"),
		Models:  splitModels(models),
		Timeout: 60 * time.Second,
	}
}

func splitModels(s string) []string {
	var out []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
