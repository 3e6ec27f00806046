package podcast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/podforge/podcast/engines"
)

// timeoutErr satisfies net.Error.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{name: "http status", err: &engines.StatusError{Code: 500, Body: "boom"}, want: ProtocolFailure},
		{name: "rate limited", err: &engines.RateLimitError{RetryAfter: time.Second}, want: ProtocolFailure},
		{name: "undersized payload", err: fmt.Errorf("%w: got 12 bytes", ErrUndersizedPayload), want: ProtocolFailure},
		{name: "wrapped status", err: fmt.Errorf("call failed: %w", &engines.StatusError{Code: 404}), want: ProtocolFailure},
		{name: "net timeout", err: timeoutErr{}, want: TransportFailure},
		{name: "deadline", err: context.DeadlineExceeded, want: TransportFailure},
		{name: "plain error", err: errors.New("connection refused"), want: TransportFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyFailure(tt.err); got != tt.want {
				t.Errorf("classifyFailure() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSynthesisError(t *testing.T) {
	base := errors.New("engine exploded")
	err := &SynthesisError{Kind: ProtocolFailure, Turn: 7, Attempts: 4, Err: base}

	msg := err.Error()
	for _, want := range []string{"turn 7", "protocol", "4 attempts", "engine exploded"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}

	if !errors.Is(err, base) {
		t.Error("SynthesisError should unwrap to the underlying error")
	}
}

func TestFailureKindString(t *testing.T) {
	tests := []struct {
		kind FailureKind
		want string
	}{
		{TransportFailure, "transport"},
		{ProtocolFailure, "protocol"},
		{ValidationFailure, "validation"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestOrdinalKeyOrdering(t *testing.T) {
	tests := []struct {
		a, b OrdinalKey
		less bool
	}{
		{OrdinalKey{Turn: 0}, OrdinalKey{Turn: 1}, true},
		{OrdinalKey{Turn: 1}, OrdinalKey{Turn: 0}, false},
		{OrdinalKey{Turn: 2}, OrdinalKey{Turn: 2, Sub: 1}, true},
		{OrdinalKey{Turn: 2, Sub: 1}, OrdinalKey{Turn: 3}, true},
		{OrdinalKey{Turn: 5}, OrdinalKey{Turn: 5}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Less(tt.b); got != tt.less {
			t.Errorf("%s.Less(%s) = %v, want %v", tt.a, tt.b, got, tt.less)
		}
	}

	if s := (OrdinalKey{Turn: 12, Sub: 1}).String(); s != "000012_1" {
		t.Errorf("key string = %q", s)
	}
}
