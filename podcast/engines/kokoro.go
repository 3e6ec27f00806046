package engines

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// speechPath is the OpenAI-compatible synthesis endpoint.
	speechPath = "/v1/audio/speech"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4096
)

// healthPaths are probed in priority order; any 200 marks the engine
// available.
var healthPaths = []string{"/health", "/v1/audio/voices", "/v1/models"}

// KokoroConfig holds configuration for the remote Kokoro engine.
type KokoroConfig struct {
	// BaseURL of the Kokoro server, e.g. "http://localhost:8343".
	BaseURL string

	// Model name sent with each request - defaults to "kokoro".
	Model string

	// SampleRate the server synthesizes at - defaults to 24000.
	SampleRate int

	// Timeout for a single synthesis call - defaults to 30s.
	Timeout time.Duration
}

// Kokoro talks to a Kokoro TTS server over its OpenAI-compatible API.
// It performs exactly one attempt per Synthesize call; retry policy
// belongs to the caller.
type Kokoro struct {
	config KokoroConfig
	client *http.Client
}

// speechRequest is the JSON body for the synthesis endpoint.
type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty"`
	Stream         bool    `json:"stream"`
}

// NewKokoro creates a Kokoro engine client.
func NewKokoro(config KokoroConfig) (*Kokoro, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("kokoro: base URL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("kokoro: invalid base URL: %w", err)
	}
	if config.Model == "" {
		config.Model = "kokoro"
	}
	if config.SampleRate == 0 {
		config.SampleRate = 24000
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Kokoro{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

// Synthesize performs one synthesis call against the server.
// A 200 response body is the raw audio payload. 429 responses are
// returned as RateLimitError with any retry-after hint; other non-200
// responses become StatusError.
func (k *Kokoro) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model:          k.config.Model,
		Input:          req.Text,
		Voice:          req.Voice,
		Speed:          req.Speed,
		ResponseFormat: req.Format,
		Stream:         false,
	})
	if err != nil {
		return nil, fmt.Errorf("kokoro: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, k.config.BaseURL+speechPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("kokoro: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := k.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("kokoro: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kokoro: reading audio payload: %w", err)
	}

	log.Debug("kokoro synthesis complete", "voice", req.Voice, "bytes", len(audio))
	return audio, nil
}

// Info returns the engine description.
func (k *Kokoro) Info() Info {
	return Info{
		Name:            "kokoro",
		SampleRate:      k.config.SampleRate,
		RequiresNetwork: true,
	}
}

// Healthy runs one availability pass: a raw TCP dial to the server's
// host:port, then GET probes in priority order. Any 200 means
// available.
func (k *Kokoro) Healthy(ctx context.Context) bool {
	addr, err := hostPort(k.config.BaseURL)
	if err != nil {
		log.Debug("kokoro health: bad base URL", "error", err)
		return false
	}

	dialer := net.Dialer{Timeout: 2 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.Debug("kokoro health: socket unreachable", "addr", addr, "error", err)
		return false
	}
	_ = conn.Close()

	for _, path := range healthPaths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.config.BaseURL+path, nil)
		if err != nil {
			continue
		}
		resp, err := k.client.Do(req)
		if err != nil {
			continue
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			log.Debug("kokoro health: available", "probe", path)
			return true
		}
	}

	return false
}

// Close releases client resources.
func (k *Kokoro) Close() error {
	k.client.CloseIdleConnections()
	return nil
}

// hostPort extracts the dialable address from a base URL, defaulting
// the port from the scheme when absent.
func hostPort(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in URL %q", baseURL)
	}
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return net.JoinHostPort(host, port), nil
}

// parseRetryAfter reads a Retry-After header value in seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
