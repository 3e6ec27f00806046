package podcast

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/dgnsrekt/podforge/podcast/engines"
)

// Common errors for the synthesis pipeline.
var (
	// ErrServiceUnavailable means the health probe failed before any
	// turn was processed.
	ErrServiceUnavailable = errors.New("TTS engine is not available")

	// ErrEmptyTurn means a turn's text was empty after normalization;
	// the turn is skipped, not failed.
	ErrEmptyTurn = errors.New("turn text is empty after normalization")

	// ErrUndersizedPayload means the engine response was below the
	// minimum plausible audio size.
	ErrUndersizedPayload = errors.New("audio payload below minimum size")

	// ErrAllAttemptsFailed means retries, voice fallback, and local
	// fallback were all exhausted for a turn.
	ErrAllAttemptsFailed = errors.New("all synthesis attempts failed")
)

// FailureKind classifies why a synthesis attempt failed.
type FailureKind int

const (
	// TransportFailure covers connection refusal and timeouts.
	TransportFailure FailureKind = iota
	// ProtocolFailure covers non-200 responses and undersized payloads.
	ProtocolFailure
	// ValidationFailure covers empty post-normalization text.
	ValidationFailure
)

// String returns the failure kind name.
func (k FailureKind) String() string {
	switch k {
	case ProtocolFailure:
		return "protocol"
	case ValidationFailure:
		return "validation"
	default:
		return "transport"
	}
}

// SynthesisError wraps a per-turn synthesis failure with its
// classification and attempt count. Per-turn failures are never
// fatal to a run.
type SynthesisError struct {
	Kind     FailureKind
	Turn     int
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	return fmt.Sprintf("turn %d: %s failure after %d attempts: %v", e.Turn, e.Kind, e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// classifyFailure maps an engine error onto the failure taxonomy.
func classifyFailure(err error) FailureKind {
	var statusErr *engines.StatusError
	var rateErr *engines.RateLimitError
	var netErr net.Error

	switch {
	case errors.As(err, &statusErr), errors.As(err, &rateErr), errors.Is(err, ErrUndersizedPayload):
		return ProtocolFailure
	case errors.As(err, &netErr), errors.Is(err, context.DeadlineExceeded):
		return TransportFailure
	default:
		return TransportFailure
	}
}
