package podcast

import (
	"context"
	"testing"
	"time"

	"github.com/dgnsrekt/podforge/internal/wav"
	"github.com/dgnsrekt/podforge/podcast/script"
)

func TestOfflineStrategyProducesPlaceholders(t *testing.T) {
	turns := script.Parse("Host A: Hello there.\nHost B: Hi!\nHost A: Goodbye now.")

	cfg := DefaultConfig()
	strategy := NewOfflineStrategy(cfg, t.TempDir())
	if strategy.Name() != "offline" {
		t.Errorf("name = %q", strategy.Name())
	}

	rc := NewRunContext(0)
	segments := strategy.Run(context.Background(), rc, turns)

	if len(segments) != len(turns)*2 {
		t.Fatalf("expected marker+pause per turn (%d segments), got %d", len(turns)*2, len(segments))
	}

	for i := 0; i < len(segments); i += 2 {
		marker, pause := segments[i], segments[i+1]
		if marker.Kind != Marker {
			t.Errorf("segment %d: kind %s, want marker", i, marker.Kind)
		}
		if pause.Kind != Pause || pause.Duration != 300*time.Millisecond {
			t.Errorf("segment %d: kind %s duration %v, want 300ms pause", i+1, pause.Kind, pause.Duration)
		}
		if marker.Key.Turn != pause.Key.Turn || pause.Key.Sub != 1 {
			t.Errorf("segments %d/%d: keys %s and %s not paired", i, i+1, marker.Key, pause.Key)
		}

		audio, err := wav.ReadFile(marker.Path)
		if err != nil {
			t.Fatalf("placeholder %s unreadable: %v", marker.Path, err)
		}
		if audio.Duration() <= 0 {
			t.Errorf("placeholder %s has no audio", marker.Path)
		}
	}

	stats := rc.Stats()
	if stats.SuccessA != 2 || stats.SuccessB != 1 {
		t.Errorf("expected placeholders counted as successes, got %+v", stats)
	}
	if stats.TotalFailed() != 0 {
		t.Errorf("expected no failures, got %+v", stats)
	}
}

func TestOfflineStrategyDistinctSpeakerTones(t *testing.T) {
	turns := script.Parse("Host A: Hello there.\nHost B: Hi friend!")
	strategy := NewOfflineStrategy(DefaultConfig(), t.TempDir())

	segments := strategy.Run(context.Background(), NewRunContext(0), turns)
	if len(segments) < 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}

	a, err := wav.ReadFile(segments[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := wav.ReadFile(segments[2].Path)
	if err != nil {
		t.Fatal(err)
	}

	// Different voices map to different pitches, so the waveforms
	// should not match even over a short window.
	same := true
	n := min(len(a.Samples), len(b.Samples))
	for i := 0; i < n; i++ {
		if a.Samples[i] != b.Samples[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("speaker placeholder tones should differ in pitch")
	}
}
