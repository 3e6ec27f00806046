package podcast

import (
	"context"
	"testing"
	"time"

	"github.com/dgnsrekt/podforge/podcast/engines"
	"github.com/dgnsrekt/podforge/podcast/script"
)

const testScript = `Host A: Welcome to the show everyone.
Host B: Thanks, great to be here!
Host A: Let's dive into today's topic.
Host A: There is a lot to cover.
Host B: Where should we start?
Host B: Maybe at the beginning.`

// newTestProcessor wires a turn processor around the mock engine.
func newTestProcessor(t *testing.T, mock engines.Engine) *turnProcessor {
	t.Helper()
	cfg := testClientConfig()
	profA, profB := cfg.Profiles()
	return &turnProcessor{
		client:   NewClient(cfg, mock, nil),
		profileA: profA,
		profileB: profB,
		tempDir:  t.TempDir(),
	}
}

func segmentKeys(segments []AudioSegment) []OrdinalKey {
	keys := make([]OrdinalKey, len(segments))
	for i, seg := range segments {
		keys[i] = seg.Key
	}
	return keys
}

func TestStrategiesProduceIdenticalOrder(t *testing.T) {
	turns := script.Parse(testScript)
	if len(turns) != 6 {
		t.Fatalf("expected 6 turns, got %d", len(turns))
	}

	cfg := testClientConfig()
	cfg.BatchSize = 2
	cfg.Workers = 3

	strategies := []ExecutionStrategy{
		StrategyFor(cfg, newTestProcessor(t, engines.NewMock(engines.MockConfig{AudioDuration: 100 * time.Millisecond}))),
		&BatchedStrategy{proc: newTestProcessor(t, engines.NewMock(engines.MockConfig{AudioDuration: 100 * time.Millisecond})), batchSize: 2, workers: 3},
		&BySpeakerStrategy{proc: newTestProcessor(t, engines.NewMock(engines.MockConfig{AudioDuration: 100 * time.Millisecond}))},
	}

	var reference []OrdinalKey
	for _, strategy := range strategies {
		rc := NewRunContext(0)
		segments := strategy.Run(context.Background(), rc, turns)

		keys := segmentKeys(segments)
		for i := 1; i < len(keys); i++ {
			if !keys[i-1].Less(keys[i]) {
				t.Errorf("%s: keys out of order at %d: %s then %s", strategy.Name(), i, keys[i-1], keys[i])
			}
		}

		if reference == nil {
			reference = keys
			continue
		}
		if len(keys) != len(reference) {
			t.Fatalf("%s: produced %d segments, want %d", strategy.Name(), len(keys), len(reference))
		}
		for i := range keys {
			if keys[i] != reference[i] {
				t.Errorf("%s: segment %d has key %s, want %s", strategy.Name(), i, keys[i], reference[i])
			}
		}

		stats := rc.Stats()
		if stats.TotalSuccess() != 6 {
			t.Errorf("%s: expected 6 successes, got %d", strategy.Name(), stats.TotalSuccess())
		}
	}
}

func TestSequentialSegmentsAndPauses(t *testing.T) {
	turns := script.Parse("Host A: Hello there.\nHost B: Hi!")
	proc := newTestProcessor(t, engines.NewMock(engines.MockConfig{AudioDuration: 100 * time.Millisecond}))

	segments := (&SequentialStrategy{proc: proc}).Run(context.Background(), NewRunContext(0), turns)
	if len(segments) != 4 {
		t.Fatalf("expected 4 segments (speech+pause per turn), got %d", len(segments))
	}

	want := []struct {
		key   OrdinalKey
		kind  SegmentKind
		pause time.Duration
	}{
		{OrdinalKey{Turn: 0}, Speech, 0},
		{OrdinalKey{Turn: 0, Sub: 1}, Pause, 600 * time.Millisecond},
		{OrdinalKey{Turn: 1}, Speech, 0},
		{OrdinalKey{Turn: 1, Sub: 1}, Pause, 700 * time.Millisecond},
	}
	for i, w := range want {
		if segments[i].Key != w.key {
			t.Errorf("segment %d: key %s, want %s", i, segments[i].Key, w.key)
		}
		if segments[i].Kind != w.kind {
			t.Errorf("segment %d: kind %s, want %s", i, segments[i].Kind, w.kind)
		}
		if w.kind == Pause && segments[i].Duration != w.pause {
			t.Errorf("segment %d: pause %v, want %v", i, segments[i].Duration, w.pause)
		}
		if w.kind == Speech && segments[i].Path == "" {
			t.Errorf("segment %d: speech segment has no backing file", i)
		}
	}
}

func TestProcessFailedTurnOmitsAllSegments(t *testing.T) {
	// FailEvery 1 makes every call fail, including fallbacks.
	proc := newTestProcessor(t, engines.NewMock(engines.MockConfig{FailEvery: 1}))
	turns := script.Parse("Host A: Hello there.\nHost B: Hi!")

	rc := NewRunContext(0)
	segments := (&SequentialStrategy{proc: proc}).Run(context.Background(), rc, turns)
	if len(segments) != 0 {
		t.Fatalf("failed turns must contribute no segments, got %d", len(segments))
	}

	stats := rc.Stats()
	if stats.FailedA != 1 || stats.FailedB != 1 {
		t.Errorf("expected one failure per speaker, got A=%d B=%d", stats.FailedA, stats.FailedB)
	}
	if stats.TotalSuccess() != 0 {
		t.Errorf("expected no successes, got %d", stats.TotalSuccess())
	}
}

func TestProcessSkipsEmptyTurn(t *testing.T) {
	proc := newTestProcessor(t, engines.NewMock(engines.MockConfig{}))
	rc := NewRunContext(0)

	// A turn whose text was emptied by normalization upstream.
	turn := script.Turn{Index: 0, Speaker: script.SpeakerA, RawText: "[laughs]", Text: ""}
	segments := proc.process(context.Background(), rc, turn)
	if len(segments) != 0 {
		t.Fatalf("skipped turn must contribute no segments, got %d", len(segments))
	}

	stats := rc.Stats()
	if stats.TotalSuccess() != 0 || stats.TotalFailed() != 0 {
		t.Errorf("skipped turn must not touch counters, got %+v", stats)
	}
}

func TestBatchTurns(t *testing.T) {
	mk := func(index int, speaker script.Speaker) script.Turn {
		return script.Turn{Index: index, Speaker: speaker, Text: "x"}
	}

	tests := []struct {
		name    string
		turns   []script.Turn
		maxSize int
		want    [][]int // indices per batch
	}{
		{
			name:    "empty",
			maxSize: 4,
			want:    nil,
		},
		{
			name:    "alternating speakers split per turn",
			turns:   []script.Turn{mk(0, script.SpeakerA), mk(1, script.SpeakerB), mk(2, script.SpeakerA)},
			maxSize: 4,
			want:    [][]int{{0}, {1}, {2}},
		},
		{
			name:    "consecutive same speaker grouped",
			turns:   []script.Turn{mk(0, script.SpeakerA), mk(1, script.SpeakerA), mk(2, script.SpeakerB)},
			maxSize: 4,
			want:    [][]int{{0, 1}, {2}},
		},
		{
			name: "oversized group split at max",
			turns: []script.Turn{
				mk(0, script.SpeakerA), mk(1, script.SpeakerA), mk(2, script.SpeakerA),
			},
			maxSize: 2,
			want:    [][]int{{0, 1}, {2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := batchTurns(tt.turns, tt.maxSize)
			if len(batches) != len(tt.want) {
				t.Fatalf("got %d batches, want %d", len(batches), len(tt.want))
			}
			for i, batch := range batches {
				if len(batch) != len(tt.want[i]) {
					t.Fatalf("batch %d: got %d turns, want %d", i, len(batch), len(tt.want[i]))
				}
				for j, turn := range batch {
					if turn.Index != tt.want[i][j] {
						t.Errorf("batch %d turn %d: index %d, want %d", i, j, turn.Index, tt.want[i][j])
					}
				}
			}
		})
	}
}
