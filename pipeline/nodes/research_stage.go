package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

// ResearchStage runs the research agent. Any failure is non-fatal: the
// error is recorded and research data degrades to a deterministic
// general-knowledge placeholder so downstream stages never see a null.
func ResearchStage(ctx context.Context, in *GraphState, researcher contractx.Researcher) (*GraphState, error) {
	c := in.Ctx
	c.Advance(statex.StageResearching)

	result, err := researcher.Research(ctx, contractx.ResearchRequest{Topic: c.Topic})
	if err != nil {
		c.AppendError("Research failed: %v", err)
		c.ResearchData = fmt.Sprintf("General knowledge about: %s", c.Topic)
		log.Warn().
			Str("trace_id", c.TraceID).
			Err(err).
			Msg("research failed, falling back to general knowledge")
		return in, nil
	}

	c.ResearchData = result.ResearchData
	c.ResearchSources = result.Sources
	log.Info().
		Str("trace_id", c.TraceID).
		Int("sources", len(result.Sources)).
		Msg("research complete")
	return in, nil
}
