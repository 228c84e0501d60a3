package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	promptx "github.com/MehanazMI/tea-stall-bench/pipeline/prompt"
	"github.com/MehanazMI/tea-stall-bench/pkg/openrouter"
	"github.com/MehanazMI/tea-stall-bench/pkg/search"
)

// sourceMarker prefixes lines in the raw search blob that carry a source
// link.
const sourceMarker = "URL: "

const researchTemperature = 0.7

// ResearchAgent (Scout) searches the web and synthesizes the results into a
// factual report.
type ResearchAgent struct {
	run func(ctx context.Context, req contractx.ResearchRequest) (contractx.ResearchResult, error)
}

var _ contractx.Researcher = (*ResearchAgent)(nil)

func NewResearchAgent(generator openrouter.Generator, provider search.Provider) (*ResearchAgent, error) {
	if generator == nil {
		return nil, errors.New("generator is required for research agent")
	}
	if provider == nil {
		return nil, errors.New("search provider is required for research agent")
	}

	prompts := promptx.LoadPromptSet()
	if prompts.Research == "" {
		return nil, fmt.Errorf("%w: research template", contractx.ErrPromptMissing)
	}
	a := &ResearchAgent{}
	a.run = instrument("research", func(ctx context.Context, req contractx.ResearchRequest) (contractx.ResearchResult, error) {
		return a.research(ctx, generator, provider, prompts, req)
	})
	return a, nil
}

func (a *ResearchAgent) Research(ctx context.Context, req contractx.ResearchRequest) (contractx.ResearchResult, error) {
	return a.run(ctx, req)
}

func (a *ResearchAgent) research(
	ctx context.Context,
	generator openrouter.Generator,
	provider search.Provider,
	prompts promptx.PromptSet,
	req contractx.ResearchRequest,
) (contractx.ResearchResult, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return contractx.ResearchResult{}, fmt.Errorf("%w: topic is required", contractx.ErrValidation)
	}

	searchResults, err := provider.Search(ctx, topic)
	if err != nil {
		return contractx.ResearchResult{}, fmt.Errorf("search: %w", err)
	}

	report, err := generator.Generate(ctx, openrouter.Request{
		Prompt:      fmt.Sprintf(prompts.Research, topic, searchResults),
		Temperature: researchTemperature,
	})
	if err != nil {
		return contractx.ResearchResult{}, fmt.Errorf("%w: synthesize research: %v", contractx.ErrModelInvoke, err)
	}

	return contractx.ResearchResult{
		Topic:        topic,
		ResearchData: report,
		Sources:      ExtractSources(searchResults),
	}, nil
}

// ExtractSources collects the source links from a raw search blob. Zero
// matches yields nil.
func ExtractSources(searchResults string) []string {
	var sources []string
	for _, line := range strings.Split(searchResults, "\n") {
		if strings.HasPrefix(line, sourceMarker) {
			if u := strings.TrimSpace(strings.TrimPrefix(line, sourceMarker)); u != "" {
				sources = append(sources, u)
			}
		}
	}
	return sources
}
