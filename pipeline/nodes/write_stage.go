package nodes

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

// WriteStage runs the writer agent. There is no substitute for the actual
// deliverable, so a failure here is fatal for the run: the error is
// recorded, the article fields stay unset, and the run never reaches
// completed. The failure still does not escape the pipeline; callers read
// it from the context.
func WriteStage(ctx context.Context, in *GraphState, writer contractx.Writer) (*GraphState, error) {
	c := in.Ctx
	c.Advance(statex.StageWriting)

	result, err := writer.Write(ctx, contractx.WriteRequest{
		Topic:        c.Topic,
		ContentType:  c.ContentType,
		Style:        c.Style,
		Length:       c.Length,
		Channel:      c.Channel,
		Outline:      c.Outline,
		ResearchData: c.ResearchData,
	})
	if err != nil {
		c.AppendError("Writing failed: %v", err)
		in.WriteFailed = true
		log.Error().
			Str("trace_id", c.TraceID).
			Err(err).
			Msg("writing failed, run will not complete")
		return in, nil
	}

	c.ArticleTitle = result.Title
	c.ArticleContent = result.Content
	c.WordCount = result.WordCount
	c.Compliance = result.Compliance
	log.Info().
		Str("trace_id", c.TraceID).
		Str("title", result.Title).
		Int("word_count", result.WordCount).
		Msg("article complete")
	return in, nil
}
