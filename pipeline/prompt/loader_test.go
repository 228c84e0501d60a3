package prompt

import (
	"fmt"
	"strings"
	"testing"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	if set.Research == "" || set.Outline == "" || set.Writer == "" {
		t.Fatal("all templates must be embedded")
	}

	for name, tpl := range map[string]string{
		"research": set.Research,
		"outline":  set.Outline,
		"writer":   set.Writer,
	} {
		if strings.TrimSpace(tpl) != tpl {
			t.Fatalf("%s template not trimmed", name)
		}
	}
}

func TestTemplatesRenderWithoutStrayVerbs(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()

	research := fmt.Sprintf(set.Research, "topic", "results")
	if strings.Contains(research, "%!") {
		t.Fatalf("research template has unmatched verbs: %q", research)
	}

	outline := fmt.Sprintf(set.Outline, "topic", "research")
	if strings.Contains(outline, "%!") {
		t.Fatalf("outline template has unmatched verbs: %q", outline)
	}

	writer := fmt.Sprintf(set.Writer, "style", "type", "topic", "guide", "channel", "extras\n")
	if strings.Contains(writer, "%!") {
		t.Fatalf("writer template has unmatched verbs: %q", writer)
	}
	if !strings.Contains(writer, "extras\nPlease write") {
		t.Fatalf("extras slot must sit before the closing instructions: %q", writer)
	}
}
