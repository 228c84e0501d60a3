// Package search provides web search for the research stage. Results are
// returned as a text blob; lines prefixed with "URL: " mark source links
// that downstream extraction picks up.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Provider interface {
	Search(ctx context.Context, query string) (string, error)
}

type Config struct {
	ParallelAPIKey string        `envconfig:"PARALLEL_API_KEY" split_words:"true"`
	ParallelURL    string        `envconfig:"PARALLEL_URL" split_words:"true" default:"https://search-mcp.parallel.ai/mcp"`
	Timeout        time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
}

// NewProvider builds the provider stack from configuration: a hybrid
// Parallel.AI + DuckDuckGo pair when a Parallel key is present, DuckDuckGo
// alone otherwise.
func NewProvider(cfg Config) Provider {
	ddg := NewDuckDuckGo(cfg.Timeout)

	key := strings.TrimSpace(cfg.ParallelAPIKey)
	if key != "" && key != "your_parallel_api_key_here" {
		log.Info().Msg("search: hybrid provider (parallel primary, duckduckgo fallback)")
		return NewHybrid(NewParallel(cfg.ParallelURL, key, cfg.Timeout), ddg)
	}

	log.Info().Msg("search: duckduckgo provider")
	return ddg
}

// Hybrid tries the primary provider and falls back to the secondary on any
// error. The secondary's error is surfaced only when both fail. This is a
// plain try/fallback pair, deliberately stateless.
type Hybrid struct {
	primary  Provider
	fallback Provider
}

func NewHybrid(primary, fallback Provider) *Hybrid {
	return &Hybrid{primary: primary, fallback: fallback}
}

func (h *Hybrid) Search(ctx context.Context, query string) (string, error) {
	result, err := h.primary.Search(ctx, query)
	if err == nil {
		return result, nil
	}
	log.Warn().Err(err).Msg("primary search provider failed, falling back")

	result, fallbackErr := h.fallback.Search(ctx, query)
	if fallbackErr != nil {
		log.Error().Err(fallbackErr).Msg("fallback search provider failed")
		return "", fallbackErr
	}
	return result, nil
}
