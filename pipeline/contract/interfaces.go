package contract

import "context"

// Researcher gathers web context for a topic.
type Researcher interface {
	Research(ctx context.Context, req ResearchRequest) (ResearchResult, error)
}

// Outliner turns a topic plus research into a validated structured outline.
type Outliner interface {
	Outline(ctx context.Context, req OutlineRequest) (OutlineResult, error)
}

// Writer produces titled prose from the run parameters and whatever the
// earlier stages yielded.
type Writer interface {
	Write(ctx context.Context, req WriteRequest) (WriteResult, error)
}

// Publisher delivers finished content through a messaging channel.
type Publisher interface {
	Publish(ctx context.Context, req PublishRequest) (PublishResult, error)
}
