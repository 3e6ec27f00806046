package podcast

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/podforge/podcast/engines"
	"github.com/dgnsrekt/podforge/podcast/script"
)

// Speed limits accepted by the engines.
const (
	minSpeed = 0.5
	maxSpeed = 2.0
)

// backoffJitter is the fraction of random spread applied to every
// computed delay, so concurrent retries never synchronize.
const backoffJitter = 0.25

// Client performs synthesis for single turns with the full resilience
// ladder: bounded retries with jittered exponential backoff, the
// server's retry-after hint, the shared request throttle, a one-shot
// cross-voice fallback, and finally the local engine when present.
//
// A Client never fails a run. Callers get either audio bytes or an
// error describing why this one turn produced nothing.
type Client struct {
	engine engines.Engine
	local  engines.Engine // nil when the capability is absent

	maxAttempts int
	backoffBase time.Duration
	backoffMax  time.Duration
	minPayload  int
	format      string
}

// NewClient creates a synthesis client. local may be nil.
func NewClient(cfg Config, engine, local engines.Engine) *Client {
	return &Client{
		engine:      engine,
		local:       local,
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
		backoffMax:  cfg.BackoffMax,
		minPayload:  cfg.MinPayloadBytes,
		format:      cfg.Format,
	}
}

// Synthesize produces audio for one turn. profile is the turn's own
// voice; fallback is the other speaker's, used once after retries are
// exhausted. The error, when non-nil, is a *SynthesisError.
func (c *Client) Synthesize(ctx context.Context, rc *RunContext, turn script.Turn, profile, fallback VoiceProfile) ([]byte, error) {
	if turn.Text == "" {
		return nil, &SynthesisError{Kind: ValidationFailure, Turn: turn.Index, Err: ErrEmptyTurn}
	}

	req := c.buildRequest(turn, profile)

	audio, attempts, err := c.attemptWithRetries(ctx, rc, turn.Index, req)
	if err == nil {
		return audio, nil
	}
	log.Warn("synthesis retries exhausted",
		"turn", turn.Index, "voice", profile.Voice, "attempts", attempts, "error", err)

	// One shot with the other speaker's voice.
	fallbackReq := c.buildRequest(turn, fallback)
	audio, fbErr := c.attemptOnce(ctx, rc, fallbackReq)
	if fbErr == nil {
		log.Info("cross-voice fallback succeeded", "turn", turn.Index, "voice", fallback.Voice)
		return audio, nil
	}

	// Local synthesis, when the capability exists.
	if c.local != nil {
		audio, localErr := c.local.Synthesize(ctx, req)
		if localErr == nil && len(audio) > 0 {
			log.Info("local fallback succeeded", "turn", turn.Index)
			return audio, nil
		}
		log.Debug("local fallback failed", "turn", turn.Index, "error", localErr)
	}

	return nil, &SynthesisError{
		Kind:     classifyFailure(err),
		Turn:     turn.Index,
		Attempts: attempts,
		Err:      fmt.Errorf("%w: %w", ErrAllAttemptsFailed, err),
	}
}

// buildRequest resolves the final voice parameters for a turn,
// applying cue deltas and clamping speed to the accepted range.
func (c *Client) buildRequest(turn script.Turn, profile VoiceProfile) engines.Request {
	adjust := script.CueAdjust(turn.Cues)

	speed := profile.BaseSpeed + adjust.Speed
	if speed < minSpeed {
		speed = minSpeed
	} else if speed > maxSpeed {
		speed = maxSpeed
	}

	return engines.Request{
		Text:   turn.Text,
		Voice:  profile.Voice,
		Speed:  speed,
		Pitch:  adjust.Pitch,
		Volume: adjust.Volume,
		Format: c.format,
	}
}

// attemptWithRetries runs the bounded retry loop for one request.
func (c *Client) attemptWithRetries(ctx context.Context, rc *RunContext, turnIndex int, req engines.Request) ([]byte, int, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		audio, err := c.attemptOnce(ctx, rc, req)
		if err == nil {
			return audio, attempt, nil
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}

		delay := c.backoffDelay(attempt, err)
		log.Debug("synthesis attempt failed, backing off",
			"turn", turnIndex, "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, attempt, ctx.Err()
		}
	}

	return nil, c.maxAttempts, lastErr
}

// attemptOnce performs exactly one throttled synthesis call and
// validates the payload size.
func (c *Client) attemptOnce(ctx context.Context, rc *RunContext, req engines.Request) ([]byte, error) {
	if err := rc.Wait(ctx); err != nil {
		return nil, err
	}

	audio, err := c.engine.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(audio) < c.minPayload {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrUndersizedPayload, len(audio), c.minPayload)
	}
	return audio, nil
}

// backoffDelay computes the wait before the next attempt: doubling
// from the base, capped, jittered ±25%. A server retry-after hint
// overrides the computed delay entirely.
func (c *Client) backoffDelay(attempt int, err error) time.Duration {
	var rateErr *engines.RateLimitError
	if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
		return rateErr.RetryAfter
	}

	delay := c.backoffBase << (attempt - 1)
	if delay > c.backoffMax {
		delay = c.backoffMax
	}

	jitter := 1 + backoffJitter*(2*rand.Float64()-1)
	return time.Duration(float64(delay) * jitter)
}
