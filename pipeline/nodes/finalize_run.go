package nodes

import (
	"time"

	"github.com/rs/zerolog/log"

	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

// FinalizeRun closes out the run. Only a successful write advances the
// stage to completed; a write-failed run stays at the writing stage with
// completed_at unset so callers can tell it apart.
func FinalizeRun(in *GraphState) (*statex.PipelineContext, error) {
	c := in.Ctx
	if !in.WriteFailed {
		c.Advance(statex.StageCompleted)
		completedAt := time.Now()
		c.CompletedAt = &completedAt
	}

	event := log.Info()
	if in.WriteFailed {
		event = log.Error()
	}
	event.
		Str("trace_id", c.TraceID).
		Str("stage", string(c.CurrentStage)).
		Int("word_count", c.WordCount).
		Int("errors", len(c.Errors)).
		Msg("pipeline finished")

	return c, nil
}
