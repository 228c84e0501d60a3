package director

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	nodex "github.com/MehanazMI/tea-stall-bench/pipeline/nodes"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

var ErrEmptyTopic = nodex.ErrEmptyTopic

// Request carries the inputs for a single pipeline run. Topic is the only
// required field; the rest fall back to catalog defaults.
type Request struct {
	Topic       string
	ContentType string
	Style       string
	Length      string
	Channel     string
}

// Director drives the research -> outline -> write pipeline over a shared
// run context. Research and outline failures degrade the run with fallback
// content; only a write failure leaves the run incomplete.
type Director struct {
	researcher contractx.Researcher
	outliner   contractx.Outliner
	writer     contractx.Writer

	graphRunner compose.Runnable[nodex.GraphInput, *statex.PipelineContext]
}

func New(
	researcher contractx.Researcher,
	outliner contractx.Outliner,
	writer contractx.Writer,
) (*Director, error) {
	if researcher == nil {
		return nil, errors.New("researcher is required")
	}
	if outliner == nil {
		return nil, errors.New("outliner is required")
	}
	if writer == nil {
		return nil, errors.New("writer is required")
	}

	d := &Director{
		researcher: researcher,
		outliner:   outliner,
		writer:     writer,
	}

	graphRunner, err := d.compileRunPipelineGraph(context.Background())
	if err != nil {
		return nil, err
	}
	d.graphRunner = graphRunner

	return d, nil
}

// RunPipeline executes the full pipeline and returns the final run context.
// It errors only when the request fails validation; stage failures are
// recorded on the context instead, so callers inspect Errors and
// CurrentStage to judge the outcome.
func (d *Director) RunPipeline(ctx context.Context, req Request) (*statex.PipelineContext, error) {
	return d.graphRunner.Invoke(ctx, nodex.GraphInput{
		Topic:       req.Topic,
		ContentType: req.ContentType,
		Style:       req.Style,
		Length:      req.Length,
		Channel:     req.Channel,
	})
}
