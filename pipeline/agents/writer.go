package agents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	catalogx "github.com/MehanazMI/tea-stall-bench/pipeline/catalog"
	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	promptx "github.com/MehanazMI/tea-stall-bench/pipeline/prompt"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
	"github.com/MehanazMI/tea-stall-bench/pkg/openrouter"
)

const (
	// researchContextLimit caps how much research text is injected into the
	// writer prompt.
	researchContextLimit = 2000

	// maxPreambleLines bounds how many conversational lead-in lines may be
	// skipped when locating the title.
	maxPreambleLines = 3

	syntheticTitleLimit = 100

	// complianceWordLen: heading words longer than this count as evidence
	// of section coverage.
	complianceWordLen = 3
)

var wordToken = regexp.MustCompile(`[\p{L}\p{N}]+`)

var preamblePhrases = []string{
	"here's",
	"here is",
	"sure",
	"certainly",
	"of course",
	"okay",
	"below is",
}

var titlePrefixes = []string{"Title:", "title:", "###", "##", "#"}

// WriterAgent (Ink) produces titled prose. With an outline present, the
// prompt carries per-section instructions and the result carries a
// compliance report scoring how many outline headings survived.
type WriterAgent struct {
	run func(ctx context.Context, req contractx.WriteRequest) (contractx.WriteResult, error)
}

var _ contractx.Writer = (*WriterAgent)(nil)

func NewWriterAgent(generator openrouter.Generator) (*WriterAgent, error) {
	if generator == nil {
		return nil, errors.New("generator is required for writer agent")
	}

	prompts := promptx.LoadPromptSet()
	if prompts.Writer == "" {
		return nil, fmt.Errorf("%w: writer template", contractx.ErrPromptMissing)
	}
	a := &WriterAgent{}
	a.run = instrument("writer", func(ctx context.Context, req contractx.WriteRequest) (contractx.WriteResult, error) {
		return a.write(ctx, generator, prompts, req)
	})
	return a, nil
}

func (a *WriterAgent) Write(ctx context.Context, req contractx.WriteRequest) (contractx.WriteResult, error) {
	return a.run(ctx, req)
}

func (a *WriterAgent) write(
	ctx context.Context,
	generator openrouter.Generator,
	prompts promptx.PromptSet,
	req contractx.WriteRequest,
) (contractx.WriteResult, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return contractx.WriteResult{}, fmt.Errorf("%w: topic is required", contractx.ErrValidation)
	}

	// One generation call; transient retries belong to the client.
	raw, err := generator.Generate(ctx, openrouter.Request{
		Prompt:      BuildWriterPrompt(prompts.Writer, req),
		Temperature: catalogx.TemperatureForStyle(req.Style),
	})
	if err != nil {
		return contractx.WriteResult{}, fmt.Errorf("%w: write generation: %v", contractx.ErrModelInvoke, err)
	}

	title, content := ParseGeneratedContent(raw)

	result := contractx.WriteResult{
		Title:     title,
		Content:   content,
		WordCount: CountWords(content),
	}
	if req.Outline != nil {
		result.Compliance = CheckCompliance(content, req.Outline)
	}
	return result, nil
}

// BuildWriterPrompt renders the writer template, injecting outline section
// instructions and a bounded research prefix when available.
func BuildWriterPrompt(template string, req contractx.WriteRequest) string {
	contentType := req.ContentType
	if contentType == "" {
		contentType = "blog"
	}
	style := req.Style
	if style == "" {
		style = "professional"
	}

	var extras strings.Builder
	if req.Outline != nil && len(req.Outline.Sections) > 0 {
		extras.WriteString("Your article MUST follow this exact structure:\n\n")
		for i, section := range req.Outline.Sections {
			fmt.Fprintf(&extras, "Section %d: %s\n", i+1, section.Heading)
			if len(section.KeyPoints) > 0 {
				extras.WriteString("  Key points to cover:\n")
				for _, point := range section.KeyPoints {
					fmt.Fprintf(&extras, "  - %s\n", point)
				}
			}
		}
		extras.WriteString("\n")
	}
	if research := strings.TrimSpace(req.ResearchData); research != "" {
		if len(research) > researchContextLimit {
			research = research[:researchContextLimit]
		}
		fmt.Fprintf(&extras, "Additional context:\n%s\n\n", research)
	}

	return fmt.Sprintf(template,
		style,
		contentType,
		req.Topic,
		catalogx.LengthGuide(req.Channel, req.Length),
		req.Channel,
		extras.String(),
	)
}

// ParseGeneratedContent splits a raw model response into title and body.
// Up to three conversational preamble lines are skipped; title markup
// prefixes are stripped. When nothing remains after the title line the
// whole response becomes the body under a synthetic truncated title.
func ParseGeneratedContent(raw string) (string, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Untitled", ""
	}

	lines := strings.Split(trimmed, "\n")

	// Skip preamble like "Here's your blog post:".
	idx := 0
	for skipped := 0; idx < len(lines) && skipped < maxPreambleLines; {
		line := strings.TrimSpace(lines[idx])
		if line == "" || isPreamble(line) {
			if line != "" {
				skipped++
			}
			idx++
			continue
		}
		break
	}
	if idx >= len(lines) {
		idx = 0
	}

	title := stripTitleMarkup(strings.TrimSpace(lines[idx]))

	rest := lines[idx+1:]
	for len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
		rest = rest[1:]
	}
	content := strings.TrimSpace(strings.Join(rest, "\n"))

	if content == "" {
		content = trimmed
		first := strings.TrimSpace(lines[0])
		if len(first) > syntheticTitleLimit {
			first = first[:syntheticTitleLimit]
		}
		title = first + "..."
	}
	return title, content
}

func isPreamble(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range preamblePhrases {
		if strings.HasPrefix(lower, phrase) {
			return true
		}
	}
	return false
}

func stripTitleMarkup(title string) string {
	for _, prefix := range titlePrefixes {
		if strings.HasPrefix(title, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(title, prefix))
		}
	}
	return title
}

// CountWords counts alphanumeric word tokens, not whitespace runs, so
// punctuation and markup do not inflate the count.
func CountWords(content string) int {
	return len(wordToken.FindAllString(content, -1))
}

// CheckCompliance scores how many outline sections are traceable in the
// content: a section counts as covered when its heading appears verbatim
// (case-insensitive) or any heading word longer than three characters
// appears. An outline with zero sections scores 1.0.
func CheckCompliance(content string, outline *statex.Outline) *statex.ComplianceReport {
	report := &statex.ComplianceReport{
		Covered: []string{},
		Missing: []string{},
	}
	if outline == nil || len(outline.Sections) == 0 {
		report.Score = 1.0
		return report
	}

	lowerContent := strings.ToLower(content)
	for _, section := range outline.Sections {
		if sectionCovered(lowerContent, section.Heading) {
			report.Covered = append(report.Covered, section.Heading)
		} else {
			report.Missing = append(report.Missing, section.Heading)
		}
	}
	report.Score = float64(len(report.Covered)) / float64(len(outline.Sections))
	return report
}

func sectionCovered(lowerContent, heading string) bool {
	lowerHeading := strings.ToLower(heading)
	if strings.Contains(lowerContent, lowerHeading) {
		return true
	}
	for _, word := range wordToken.FindAllString(lowerHeading, -1) {
		if len([]rune(word)) > complianceWordLen && strings.Contains(lowerContent, word) {
			return true
		}
	}
	return false
}
