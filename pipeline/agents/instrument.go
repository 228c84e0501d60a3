package agents

import (
	"context"
	"time"

	logx "github.com/MehanazMI/tea-stall-bench/pkg/logger"
)

// instrument wraps an agent run with timing and structured logging. Agents
// are plain capabilities; this free function replaces any lifecycle base
// type.
func instrument[I, O any](name string, fn func(context.Context, I) (O, error)) func(context.Context, I) (O, error) {
	logger := logx.With(name)
	return func(ctx context.Context, in I) (O, error) {
		start := time.Now()
		logger.Debug().Msg("agent starting")

		out, err := fn(ctx, in)
		if err != nil {
			logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("agent failed")
			return out, err
		}

		logger.Info().Dur("elapsed", time.Since(start)).Msg("agent completed")
		return out, nil
	}
}
