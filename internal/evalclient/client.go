// Package evalclient calls the evaluation endpoint on behalf of the CLI.
package evalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/engpractice/internal/evaluation"
)

// DefaultTimeout bounds a whole evaluation round trip.
const DefaultTimeout = 30 * time.Second

const evaluatePath = "/api/evaluate"

var (
	// ErrMalformedResponse is returned when a successful response has no
	// evaluation object.
	ErrMalformedResponse = errors.New("malformed evaluation response")

	// ErrEvaluationInFlight is returned when Evaluate is called while a
	// previous call on the same client has not finished.
	ErrEvaluationInFlight = errors.New("an evaluation is already in progress")
)

// MissingFieldError names the first empty request field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// NetworkError wraps a transport failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("evaluation request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// EvaluationFailedError reports a non-2xx response.
type EvaluationFailedError struct {
	Message string
	Status  int
}

func (e *EvaluationFailedError) Error() string { return e.Message }

// Client submits work to the evaluation endpoint. It allows one evaluation
// at a time.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	log      *zap.Logger
	inFlight atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the round-trip timeout. Non-positive values keep the
// default. A client passed to WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the endpoint served at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the endpoint root the client posts to.
func (c *Client) BaseURL() string { return c.baseURL }

// Evaluate submits one piece of work and returns the evaluation object
// exactly as the endpoint produced it.
func (c *Client) Evaluate(ctx context.Context, kind evaluation.Kind, content, prompt, level string) (json.RawMessage, error) {
	for _, f := range []struct{ name, value string }{
		{"type", string(kind)},
		{"content", content},
		{"prompt", prompt},
		{"level", level},
	} {
		if f.value == "" {
			return nil, &MissingFieldError{Field: f.name}
		}
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrEvaluationInFlight
	}
	defer c.inFlight.Store(false)

	body, err := json.Marshal(evaluation.Request{Type: kind, Content: content, Prompt: prompt, Level: level})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+evaluatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	c.log.Debug("evaluation response",
		zap.String("kind", string(kind)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, failure(resp.StatusCode, raw)
	}

	var out struct {
		Evaluation json.RawMessage `json:"evaluation"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || len(out.Evaluation) == 0 || string(out.Evaluation) == "null" {
		return nil, ErrMalformedResponse
	}
	return out.Evaluation, nil
}

// EvaluateWriting evaluates a writing submission and decodes the rubric.
func (c *Client) EvaluateWriting(ctx context.Context, content, prompt, level string) (*evaluation.WritingEvaluation, error) {
	raw, err := c.Evaluate(ctx, evaluation.KindWriting, content, prompt, level)
	if err != nil {
		return nil, err
	}
	return evaluation.DecodeWriting(raw)
}

// EvaluateSpeaking evaluates a speaking transcript and decodes the rubric.
func (c *Client) EvaluateSpeaking(ctx context.Context, transcript, prompt, level string) (*evaluation.SpeakingEvaluation, error) {
	raw, err := c.Evaluate(ctx, evaluation.KindSpeaking, transcript, prompt, level)
	if err != nil {
		return nil, err
	}
	return evaluation.DecodeSpeaking(raw)
}

func failure(status int, body []byte) *EvaluationFailedError {
	var e struct {
		Error string `json:"error"`
	}
	msg := fmt.Sprintf("Evaluation failed with status %d", status)
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	return &EvaluationFailedError{Message: msg, Status: status}
}
