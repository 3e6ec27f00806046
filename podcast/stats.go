package podcast

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/dgnsrekt/podforge/podcast/script"
)

// RunContext carries the shared mutable state of one run: the
// process-wide request throttle and the per-speaker counters. Every
// worker in every strategy shares the same RunContext, which is what
// keeps parallel strategies globally rate-limited. It is created at
// run start and discarded with the run.
type RunContext struct {
	throttle *rate.Limiter

	successA atomic.Int64
	successB atomic.Int64
	failedA  atomic.Int64
	failedB  atomic.Int64
}

// NewRunContext creates a run context enforcing the given minimum
// spacing between outgoing synthesis requests. A zero interval
// disables throttling.
func NewRunContext(minInterval time.Duration) *RunContext {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if minInterval > 0 {
		// Burst 1 means consecutive permits are at least minInterval
		// apart, regardless of how many workers are waiting.
		limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return &RunContext{throttle: limiter}
}

// Wait blocks until the throttle permits the next outgoing request.
func (rc *RunContext) Wait(ctx context.Context) error {
	return rc.throttle.Wait(ctx)
}

// RecordSuccess increments the speaker's success counter.
func (rc *RunContext) RecordSuccess(speaker script.Speaker) {
	if speaker == script.SpeakerB {
		rc.successB.Add(1)
	} else {
		rc.successA.Add(1)
	}
}

// RecordFailure increments the speaker's failure counter.
func (rc *RunContext) RecordFailure(speaker script.Speaker) {
	if speaker == script.SpeakerB {
		rc.failedB.Add(1)
	} else {
		rc.failedA.Add(1)
	}
}

// Stats returns a snapshot of the counters.
func (rc *RunContext) Stats() RunStats {
	return RunStats{
		SuccessA: rc.successA.Load(),
		SuccessB: rc.successB.Load(),
		FailedA:  rc.failedA.Load(),
		FailedB:  rc.failedB.Load(),
	}
}
