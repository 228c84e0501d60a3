package director

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/MehanazMI/tea-stall-bench/pipeline/nodes"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

func (d *Director) compileRunPipelineGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, *statex.PipelineContext], error) {
	graph := compose.NewGraph[nodex.GraphInput, *statex.PipelineContext]()

	if err := graph.AddLambdaNode("initialize_run",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.InitializeRun(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node initialize_run: %w", err)
	}

	if err := graph.AddLambdaNode("research_stage",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ResearchStage(ctx, in, d.researcher)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node research_stage: %w", err)
	}

	if err := graph.AddLambdaNode("outline_stage",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.OutlineStage(ctx, in, d.outliner)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node outline_stage: %w", err)
	}

	if err := graph.AddLambdaNode("write_stage",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.WriteStage(ctx, in, d.writer)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node write_stage: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_run",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*statex.PipelineContext, error) {
			return nodex.FinalizeRun(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_run: %w", err)
	}

	edges := [][2]string{
		{compose.START, "initialize_run"},
		{"initialize_run", "research_stage"},
		{"research_stage", "outline_stage"},
		{"outline_stage", "write_stage"},
		{"write_stage", "finalize_run"},
		{"finalize_run", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("director.run_pipeline"))
	if err != nil {
		return nil, fmt.Errorf("compile pipeline graph: %w", err)
	}
	return runner, nil
}
