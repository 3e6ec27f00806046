package podcast

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/podforge/podcast/script"
)

// BySpeakerStrategy partitions turns into the two speakers'
// subsequences and processes them concurrently, one worker per
// speaker. Each worker keeps its own subsequence in order; the merged
// result is restored to full script order by ordinal key.
type BySpeakerStrategy struct {
	proc *turnProcessor
}

// Name returns the strategy name.
func (s *BySpeakerStrategy) Name() string { return StrategyBySpeaker }

// Run processes both speaker partitions concurrently.
func (s *BySpeakerStrategy) Run(ctx context.Context, rc *RunContext, turns []script.Turn) []AudioSegment {
	var partA, partB []script.Turn
	for _, turn := range turns {
		if turn.Speaker == script.SpeakerB {
			partB = append(partB, turn)
		} else {
			partA = append(partA, turn)
		}
	}
	log.Debug("by-speaker execution", "speaker_a", len(partA), "speaker_b", len(partB))

	var (
		mu       sync.Mutex
		segments []AudioSegment
		wg       sync.WaitGroup
	)

	for _, part := range [][]script.Turn{partA, partB} {
		if len(part) == 0 {
			continue
		}
		wg.Add(1)
		go func(part []script.Turn) {
			defer wg.Done()
			for _, turn := range part {
				produced := s.proc.process(ctx, rc, turn)
				mu.Lock()
				segments = append(segments, produced...)
				mu.Unlock()
			}
		}(part)
	}
	wg.Wait()

	sortSegments(segments)
	return segments
}
