package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	promptx "github.com/MehanazMI/tea-stall-bench/pipeline/prompt"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
	"github.com/MehanazMI/tea-stall-bench/pkg/openrouter"
)

const (
	// outlineMaxRetries counts retries after the first attempt: 3 total.
	outlineMaxRetries  = 2
	outlineTemperature = 0.7

	noResearchPlaceholder = "No specific research provided."
)

// OutlineAgent (Draft) turns topic plus research into a validated structured
// outline. Invalid model JSON is retried with the validation error appended
// to the prompt so the model can self-correct.
type OutlineAgent struct {
	run func(ctx context.Context, req contractx.OutlineRequest) (contractx.OutlineResult, error)
}

var _ contractx.Outliner = (*OutlineAgent)(nil)

func NewOutlineAgent(generator openrouter.Generator) (*OutlineAgent, error) {
	if generator == nil {
		return nil, errors.New("generator is required for outline agent")
	}

	prompts := promptx.LoadPromptSet()
	if prompts.Outline == "" {
		return nil, fmt.Errorf("%w: outline template", contractx.ErrPromptMissing)
	}
	a := &OutlineAgent{}
	a.run = instrument("outline", func(ctx context.Context, req contractx.OutlineRequest) (contractx.OutlineResult, error) {
		return a.outline(ctx, generator, prompts, req)
	})
	return a, nil
}

func (a *OutlineAgent) Outline(ctx context.Context, req contractx.OutlineRequest) (contractx.OutlineResult, error) {
	return a.run(ctx, req)
}

func (a *OutlineAgent) outline(
	ctx context.Context,
	generator openrouter.Generator,
	prompts promptx.PromptSet,
	req contractx.OutlineRequest,
) (contractx.OutlineResult, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return contractx.OutlineResult{}, fmt.Errorf("%w: topic is required", contractx.ErrValidation)
	}

	researchData := req.ResearchData
	if strings.TrimSpace(researchData) == "" {
		researchData = noResearchPlaceholder
	}

	prompt := fmt.Sprintf(prompts.Outline, topic, researchData)

	var lastErr error
	for attempt := 0; attempt <= outlineMaxRetries; attempt++ {
		raw, err := generator.Generate(ctx, openrouter.Request{
			Prompt:      prompt,
			Temperature: outlineTemperature,
		})
		if err != nil {
			// Transport failures are not parse failures; the generation
			// client already retried transient ones.
			return contractx.OutlineResult{}, fmt.Errorf("%w: outline generation: %v", contractx.ErrModelInvoke, err)
		}

		cleaned := StripCodeFence(raw)

		var outline statex.Outline
		parseErr := json.Unmarshal([]byte(cleaned), &outline)
		if parseErr == nil {
			parseErr = outline.Validate()
		}
		if parseErr == nil {
			return contractx.OutlineResult{
				Topic:   topic,
				Outline: &outline,
				RawJSON: cleaned,
			}, nil
		}

		log.Warn().
			Int("attempt", attempt+1).
			Err(parseErr).
			Msg("outline attempt produced invalid JSON")
		lastErr = parseErr
		// Feed the validation error back verbatim so the model corrects
		// itself on the next attempt.
		prompt += fmt.Sprintf("\n\nERROR: Previous output was invalid JSON. Error: %s\nPlease provide ONLY valid JSON matching the schema.", parseErr)
	}

	return contractx.OutlineResult{}, fmt.Errorf(
		"%w: failed to generate valid outline after %d attempts: %v",
		contractx.ErrSchemaViolation, outlineMaxRetries+1, lastErr,
	)
}

// StripCodeFence removes surrounding markdown code fences from a model
// response, tolerating a ```json language tag.
func StripCodeFence(s string) string {
	if strings.Contains(s, "```json") {
		parts := strings.SplitN(s, "```json", 2)
		s = strings.SplitN(parts[1], "```", 2)[0]
	} else if strings.Contains(s, "```") {
		parts := strings.SplitN(s, "```", 3)
		if len(parts) >= 2 {
			s = parts[1]
		}
	}
	return strings.TrimSpace(s)
}
