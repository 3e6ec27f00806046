package podcast

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/podforge/podcast/script"
)

// ExecutionStrategy runs a sequence of turns through synthesis and
// produces audio segments. Implementations share one contract: given
// N turns, return zero or more segments whose ordinal keys are
// monotonically consistent with turn order; permanently failed turns
// are omitted. Strategies may differ in concurrency but never in
// output ordering.
type ExecutionStrategy interface {
	Name() string
	Run(ctx context.Context, rc *RunContext, turns []script.Turn) []AudioSegment
}

// turnProcessor is the shared Turn→Segment contract used by every
// live strategy: synthesize, persist the speech segment, derive the
// trailing pause, and record the outcome on the run context.
type turnProcessor struct {
	client   *Client
	profileA VoiceProfile
	profileB VoiceProfile
	tempDir  string
}

// process runs one turn to completion. Failed turns return no
// segments; skipped (empty) turns return no segments and count
// neither as success nor failure.
func (p *turnProcessor) process(ctx context.Context, rc *RunContext, turn script.Turn) []AudioSegment {
	profile, fallback := p.profileA, p.profileB
	if turn.Speaker == script.SpeakerB {
		profile, fallback = p.profileB, p.profileA
	}

	audio, err := p.client.Synthesize(ctx, rc, turn, profile, fallback)
	if err != nil {
		var synthErr *SynthesisError
		if errors.As(err, &synthErr) && synthErr.Kind == ValidationFailure {
			log.Debug("skipping empty turn", "turn", turn.Index)
			return nil
		}
		log.Warn("turn permanently failed", "turn", turn.Index, "speaker", turn.Speaker, "error", err)
		rc.RecordFailure(turn.Speaker)
		return nil
	}

	key := OrdinalKey{Turn: turn.Index}
	path := filepath.Join(p.tempDir, fmt.Sprintf("line_%s.wav", key))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		log.Warn("writing segment file failed", "turn", turn.Index, "error", err)
		rc.RecordFailure(turn.Speaker)
		return nil
	}

	rc.RecordSuccess(turn.Speaker)
	segments := []AudioSegment{{Key: key, Kind: Speech, Path: path}}

	if pause := script.TrailingPause(turn.RawText); pause > 0 {
		segments = append(segments, AudioSegment{
			Key:      OrdinalKey{Turn: turn.Index, Sub: 1},
			Kind:     Pause,
			Duration: pause,
		})
	}

	return segments
}

// sortSegments restores script order after concurrent production.
// Ordering is always by ordinal key, never by completion time.
func sortSegments(segments []AudioSegment) {
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Key.Less(segments[j].Key)
	})
}

// StrategyFor returns the configured live strategy.
func StrategyFor(cfg Config, proc *turnProcessor) ExecutionStrategy {
	switch cfg.Strategy {
	case StrategyBatched:
		return &BatchedStrategy{proc: proc, batchSize: cfg.BatchSize, workers: cfg.Workers}
	case StrategyBySpeaker:
		return &BySpeakerStrategy{proc: proc}
	default:
		return &SequentialStrategy{proc: proc}
	}
}

// SequentialStrategy processes turns one at a time in script order.
// Deterministic and slowest; the default.
type SequentialStrategy struct {
	proc *turnProcessor
}

// Name returns the strategy name.
func (s *SequentialStrategy) Name() string { return StrategySequential }

// Run processes every turn in order on the calling goroutine.
func (s *SequentialStrategy) Run(ctx context.Context, rc *RunContext, turns []script.Turn) []AudioSegment {
	segments := make([]AudioSegment, 0, len(turns)*2)
	for _, turn := range turns {
		segments = append(segments, s.proc.process(ctx, rc, turn)...)
	}
	return segments
}
