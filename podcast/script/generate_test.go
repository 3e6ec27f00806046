package script

import (
	"strings"
	"testing"
)

func TestGenerateDialogueParses(t *testing.T) {
	source := "The ocean covers most of the planet and remains largely unexplored. " +
		"Deep sea creatures have adapted to extreme pressure. " +
		"New species are discovered on nearly every expedition."

	dialogue := GenerateDialogue(source)

	turns := Parse(dialogue)
	if len(turns) < 6 {
		t.Fatalf("Expected a full dialogue, got %d turns", len(turns))
	}

	// The generated script must round-trip through the parser with
	// explicit labels, never relying on alternation.
	for _, line := range strings.Split(dialogue, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "Host A:") && !strings.HasPrefix(line, "Host B:") {
			t.Errorf("Unlabeled line in generated script: %q", line)
		}
	}
}

func TestGenerateDialogueEmptySource(t *testing.T) {
	dialogue := GenerateDialogue("")
	if !strings.Contains(dialogue, "an interesting topic") {
		t.Error("Empty source should fall back to the generic topic")
	}
	if len(Parse(dialogue)) == 0 {
		t.Error("Even an empty source should produce a parsable script")
	}
}

func TestExtractKeyPoints(t *testing.T) {
	text := "Short. This sentence is long enough to be a key point. Tiny. " +
		"Another sufficiently long sentence for extraction."

	points := extractKeyPoints(text, 5)
	if len(points) != 2 {
		t.Fatalf("Expected 2 key points, got %d: %v", len(points), points)
	}
	for _, p := range points {
		if len(p) <= 20 {
			t.Errorf("Key point too short: %q", p)
		}
	}
}

func TestCleanSourceStripsPageNumbers(t *testing.T) {
	got := cleanSource("Intro text  3 of 12   more text")
	if strings.Contains(got, "of 12") {
		t.Errorf("Page markers should be stripped, got %q", got)
	}
}
