// Package nodes contains the per-stage graph node functions. Each node
// receives the shared run state, applies its stage's fallback policy, and
// passes the state on; sequencing lives in the director's graph.
package nodes

import (
	"errors"

	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

var ErrEmptyTopic = errors.New("topic is required")

// GraphInput carries the run parameters into the pipeline graph.
type GraphInput struct {
	Topic       string
	ContentType string
	Style       string
	Length      string
	Channel     string
}

// GraphState threads the run context between nodes. WriteFailed marks the
// one fatal path: it keeps the finalize node from advancing the run to
// completed.
type GraphState struct {
	Ctx         *statex.PipelineContext
	WriteFailed bool
}
