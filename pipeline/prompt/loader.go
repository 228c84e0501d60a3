package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/research.txt
	researchRaw string

	//go:embed template/outline.txt
	outlineRaw string

	//go:embed template/writer.txt
	writerRaw string
)

// PromptSet holds the loaded prompt templates. The templates use indexed
// fmt verbs; the agents fill them with fmt.Sprintf.
type PromptSet struct {
	Research string
	Outline  string
	Writer   string
}

// LoadPromptSet returns a PromptSet with trimmed template strings. Safe to
// call concurrently; the embed is compile-time.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Research: strings.TrimSpace(researchRaw),
		Outline:  strings.TrimSpace(outlineRaw),
		Writer:   strings.TrimSpace(writerRaw),
	}
}
