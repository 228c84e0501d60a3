package nodes

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

// OutlineStage runs the outline agent. Exhausted retries are non-fatal:
// the error is recorded and a fixed three-section outline stands in.
func OutlineStage(ctx context.Context, in *GraphState, outliner contractx.Outliner) (*GraphState, error) {
	c := in.Ctx
	c.Advance(statex.StageOutlining)

	result, err := outliner.Outline(ctx, contractx.OutlineRequest{
		Topic:        c.Topic,
		ResearchData: c.ResearchData,
	})
	if err != nil {
		c.AppendError("Outline failed: %v", err)
		c.Outline = statex.FallbackOutline(c.Topic)
		log.Warn().
			Str("trace_id", c.TraceID).
			Err(err).
			Msg("outline failed, using fallback outline")
		return in, nil
	}

	c.Outline = result.Outline
	log.Info().
		Str("trace_id", c.TraceID).
		Int("sections", len(result.Outline.Sections)).
		Msg("outline complete")
	return in, nil
}
