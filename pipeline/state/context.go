// Package state holds the per-run mutable context threaded through the
// content pipeline stages.
package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageInitialized Stage = "initialized"
	StageResearching Stage = "researching"
	StageOutlining   Stage = "outlining"
	StageWriting     Stage = "writing"
	StageCompleted   Stage = "completed"
)

// PipelineContext is the single state object for one pipeline run. One is
// created per run, owned exclusively by that run, and returned to the
// caller when the run finishes; it is never shared across runs.
type PipelineContext struct {
	TraceID string `json:"trace_id"`

	// Run parameters, fixed at creation.
	Topic       string `json:"topic"`
	ContentType string `json:"content_type"`
	Style       string `json:"style"`
	Length      string `json:"length"`
	Channel     string `json:"channel"`

	// Stage outputs, populated sequentially.
	ResearchData    string            `json:"research_data,omitempty"`
	ResearchSources []string          `json:"research_sources,omitempty"`
	Outline         *Outline          `json:"outline,omitempty"`
	ArticleTitle    string            `json:"article_title,omitempty"`
	ArticleContent  string            `json:"article_content,omitempty"`
	WordCount       int               `json:"word_count,omitempty"`
	Compliance      *ComplianceReport `json:"compliance,omitempty"`

	// Status tracking. Errors is append-only; entry order mirrors stage
	// execution order.
	CurrentStage Stage      `json:"current_stage"`
	Errors       []string   `json:"errors"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Outline is the structured plan produced by the outline stage.
type Outline struct {
	Title    string           `json:"title"`
	Sections []OutlineSection `json:"sections"`
}

type OutlineSection struct {
	Heading   string   `json:"heading"`
	KeyPoints []string `json:"key_points"`
}

// Validate checks the outline against the schema the writer stage depends
// on. Called on model output before it is accepted.
func (o *Outline) Validate() error {
	if o == nil {
		return fmt.Errorf("outline is nil")
	}
	if o.Title == "" {
		return fmt.Errorf("outline title is required")
	}
	if len(o.Sections) == 0 {
		return fmt.Errorf("outline must have at least one section")
	}
	for i, s := range o.Sections {
		if s.Heading == "" {
			return fmt.Errorf("sections[%d].heading is required", i)
		}
		if s.KeyPoints == nil {
			return fmt.Errorf("sections[%d].key_points is required", i)
		}
	}
	return nil
}

// FallbackOutline is the deterministic substitute used when the outline
// stage exhausts its attempts.
func FallbackOutline(topic string) *Outline {
	return &Outline{
		Title: topic,
		Sections: []OutlineSection{
			{Heading: "Introduction", KeyPoints: []string{fmt.Sprintf("Overview of %s", topic)}},
			{Heading: "Key Points", KeyPoints: []string{fmt.Sprintf("Main ideas about %s", topic)}},
			{Heading: "Conclusion", KeyPoints: []string{"Summary and takeaways"}},
		},
	}
}

// ComplianceReport measures how much of the outline survived into the
// written article.
type ComplianceReport struct {
	Score   float64  `json:"score"`
	Covered []string `json:"covered"`
	Missing []string `json:"missing"`
}

// NewContext creates the context for one run, applying the default run
// parameters for anything unset and stamping the start time.
func NewContext(topic, contentType, style, length, channel string) *PipelineContext {
	if contentType == "" {
		contentType = "blog"
	}
	if style == "" {
		style = "professional"
	}
	if length == "" {
		length = "medium"
	}
	if channel == "" {
		channel = "blog"
	}
	return &PipelineContext{
		TraceID:      uuid.NewString()[:8],
		Topic:        topic,
		ContentType:  contentType,
		Style:        style,
		Length:       length,
		Channel:      channel,
		CurrentStage: StageInitialized,
		Errors:       []string{},
		StartedAt:    time.Now(),
	}
}

// AppendError records a non-fatal (or write-fatal) stage failure. Entries
// are never removed or reordered.
func (c *PipelineContext) AppendError(format string, args ...any) {
	c.Errors = append(c.Errors, fmt.Sprintf(format, args...))
}

// Advance moves the run to the given stage.
func (c *PipelineContext) Advance(stage Stage) {
	c.CurrentStage = stage
}

// Completed reports whether the run reached the terminal completed stage.
func (c *PipelineContext) Completed() bool {
	return c.CurrentStage == StageCompleted
}
