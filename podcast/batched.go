package podcast

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/podforge/podcast/script"
)

// BatchedStrategy groups consecutive same-speaker turns into batches
// and runs the batches on a bounded worker pool. Batches may complete
// out of order; the final segment order is restored by sorting on
// ordinal keys. Throughput still respects the shared throttle, so the
// win over sequential is overlapping the non-network work.
type BatchedStrategy struct {
	proc      *turnProcessor
	batchSize int
	workers   int
}

// Name returns the strategy name.
func (s *BatchedStrategy) Name() string { return StrategyBatched }

// Run executes all batches and returns segments in script order.
func (s *BatchedStrategy) Run(ctx context.Context, rc *RunContext, turns []script.Turn) []AudioSegment {
	batches := batchTurns(turns, s.batchSize)
	log.Debug("batched execution", "turns", len(turns), "batches", len(batches), "workers", s.workers)

	var (
		mu       sync.Mutex
		segments []AudioSegment
		wg       sync.WaitGroup
	)

	work := make(chan []script.Turn)

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range work {
				for _, turn := range batch {
					produced := s.proc.process(ctx, rc, turn)
					mu.Lock()
					segments = append(segments, produced...)
					mu.Unlock()
				}
			}
		}()
	}

	for _, batch := range batches {
		work <- batch
	}
	close(work)
	wg.Wait()

	sortSegments(segments)
	return segments
}

// batchTurns groups consecutive same-speaker turns, splitting any
// group that exceeds maxSize.
func batchTurns(turns []script.Turn, maxSize int) [][]script.Turn {
	if maxSize < 1 {
		maxSize = 1
	}

	var batches [][]script.Turn
	var current []script.Turn

	for _, turn := range turns {
		if len(current) > 0 &&
			(current[0].Speaker != turn.Speaker || len(current) >= maxSize) {
			batches = append(batches, current)
			current = nil
		}
		current = append(current, turn)
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches
}
