package nodes

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

// InitializeRun validates the input and builds a fresh run context. An
// empty topic never enters the stage machine.
func InitializeRun(in GraphInput) (*GraphState, error) {
	if strings.TrimSpace(in.Topic) == "" {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrEmptyTopic)
	}

	ctx := statex.NewContext(in.Topic, in.ContentType, in.Style, in.Length, in.Channel)
	log.Info().
		Str("trace_id", ctx.TraceID).
		Str("topic", ctx.Topic).
		Str("channel", ctx.Channel).
		Msg("pipeline started")

	return &GraphState{Ctx: ctx}, nil
}
