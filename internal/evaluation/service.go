package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/engpractice/internal/llm"
)

const (
	// DefaultTimeout bounds a single model call.
	DefaultTimeout = 30 * time.Second

	// Temperature used for every evaluation.
	Temperature = 0.7
)

// Evaluator evaluates a single submission. *Service implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, req Request) (json.RawMessage, error)
}

// Service turns a submission into a rubric by calling an LLM provider.
// It holds no per-request state.
type Service struct {
	provider  llm.Provider
	configErr error
	timeout   time.Duration
	log       *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each model call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a Service. A nil provider means no credential is
// configured; every evaluation then fails with *ConfigurationError wrapping
// configErr.
func NewService(provider llm.Provider, configErr error, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		configErr: configErr,
		timeout:   DefaultTimeout,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.configErr == nil {
		s.configErr = llm.ErrNotConfigured
	}
	return s
}

// Configured reports whether a provider is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Evaluate validates req, asks the model for a rubric and checks that the
// result is a JSON object with a numeric score. The returned JSON is the
// model output unchanged.
func (s *Service) Evaluate(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, &ConfigurationError{Err: s.configErr}
	}

	purpose := llm.PurposeWritingEvaluation
	if req.Type == KindSpeaking {
		purpose = llm.PurposeSpeakingEvaluation
	}
	ctx = llm.WithPurpose(ctx, purpose)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      SystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt(req)}},
		Format:      llm.FormatJSONObject,
		Temperature: Temperature,
	})
	if err != nil {
		perr := classifyProviderError(err)
		s.log.Warn("evaluation failed",
			zap.String("kind", string(req.Type)),
			zap.Int("status", perr.Status),
			zap.Error(err))
		return nil, perr
	}

	content := bytes.TrimSpace(resp.Content)
	if len(content) == 0 {
		return nil, &FormatError{Message: MsgNoResponse}
	}
	if !json.Valid(content) {
		return nil, &FormatError{Message: MsgInvalidFormat}
	}
	if err := llm.ValidateJSON(rubricSchema, content); err != nil {
		return nil, &FormatError{Message: MsgMissingScore, Err: err}
	}

	s.log.Info("evaluation completed",
		zap.String("kind", string(req.Type)),
		zap.String("level", req.Level),
		zap.Float64("score", scoreOf(content)),
		zap.Duration("latency", time.Since(start)))

	return json.RawMessage(content), nil
}

func scoreOf(raw json.RawMessage) float64 {
	var v struct {
		Score float64 `json:"score"`
	}
	_ = json.Unmarshal(raw, &v)
	return v.Score
}
