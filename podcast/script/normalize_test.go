package script

import (
	"strings"
	"testing"
)

func TestNormalizePipeline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "abbreviations",
			input:    "Dr. Smith met Mr. Jones",
			expected: "Doctor Smith met Mister Jones",
		},
		{
			name:     "mrs before mr",
			input:    "Mrs. Smith arrived",
			expected: "Missus Smith arrived",
		},
		{
			name:     "latin abbreviations",
			input:    "Fruits, e.g. apples, are healthy, i.e. good for you",
			expected: "Fruits, for example apples, are healthy, that is good for you",
		},
		{
			name:     "percent",
			input:    "Growth hit 42% this year",
			expected: "Growth hit 42 percent this year",
		},
		{
			name:     "asterisks dropped",
			input:    "This is *really* important",
			expected: "This is really important",
		},
		{
			name:     "hash ampersand at",
			input:    "Item #3 & #4 live @ the store",
			expected: "Item number 3 and number 4 live at the store",
		},
		{
			name:     "whitespace collapse",
			input:    "too    many \t spaces   here",
			expected: "too many spaces here",
		},
		{
			name:     "unrecognized bracket dropped",
			input:    "Hello [music swells] world",
			expected: "Hello world",
		},
		{
			name:     "recognized cue stripped",
			input:    "[excited] Hello world",
			expected: "Hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Dr. Smith said 50% of [excited] tests *pass* & that's #1!",
		"Plain text with no special characters",
		strings.Repeat("A long sentence that keeps going. ", 40),
	}

	for _, input := range inputs {
		once, _ := Normalize(input)
		twice, _ := Normalize(once)
		if once != twice {
			t.Errorf("Normalize is not idempotent:\n once: %q\ntwice: %q", once, twice)
		}
	}
}

func TestNormalizeTruncation(t *testing.T) {
	long := strings.Repeat("word ", 200)

	got, _ := Normalize(long)
	if len([]rune(got)) > MaxTurnLength {
		t.Errorf("Normalized text exceeds %d chars: %d", MaxTurnLength, len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Truncated text must end with ellipsis, got %q", got[len(got)-10:])
	}
}

func TestNormalizeEmptyResult(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"[music]",
		"[excited]",
		"***",
	}

	for _, input := range tests {
		if got, _ := Normalize(input); got != "" {
			t.Errorf("Normalize(%q) = %q, expected empty", input, got)
		}
	}
}

func TestNormalizeCueRecording(t *testing.T) {
	_, cues := Normalize("[excited] Big news [pause] today [sad]")
	if len(cues) != 3 {
		t.Fatalf("Expected 3 cues, got %d", len(cues))
	}

	names := make([]string, len(cues))
	for i, c := range cues {
		names[i] = c.Name
	}
	expected := []string{"excited", "pause", "sad"}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Cue %d: expected %q, got %q", i, expected[i], names[i])
		}
	}
}
