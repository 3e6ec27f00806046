// Package engines provides the synthesis backends: the remote Kokoro
// HTTP engine, an optional local subprocess engine, and deterministic
// tone/mock engines for offline placeholders and tests.
package engines

import (
	"context"
	"fmt"
	"time"
)

// Request is one synthesis attempt. Voice parameters are fully
// resolved by the caller; engines apply what they support and ignore
// the rest (the Kokoro speech API honors speed only).
type Request struct {
	Text   string
	Voice  string
	Speed  float64
	Pitch  float64 // delta from the voice's neutral pitch
	Volume float64 // delta from unity gain
	Format string  // audio container, e.g. "wav"
}

// Info describes an engine's fixed characteristics.
type Info struct {
	Name            string
	SampleRate      int
	RequiresNetwork bool
}

// Engine is the contract every synthesis backend implements.
// Synthesize returns a complete audio payload (WAV container) or an
// error; it must respect ctx cancellation on network or subprocess
// waits.
type Engine interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
	Info() Info
	Healthy(ctx context.Context) bool
	Close() error
}

// StatusError reports a non-200 response from a remote engine.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("engine returned status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("engine returned status %d", e.Code)
}

// RateLimitError is a 429 response, optionally carrying the server's
// retry-after hint. A zero RetryAfter means no hint was supplied.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("engine rate limited, retry after %s", e.RetryAfter)
	}
	return "engine rate limited"
}
