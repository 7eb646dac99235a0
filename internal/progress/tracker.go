package progress

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// StorageKey is the fixed namespace the progress blob is stored under.
const StorageKey = "english-learning-progress"

// Tracker owns the learner's progress state. Every mutation computes the
// next state, persists it, and only then makes it current, so a failed
// save leaves the tracker unchanged.
type Tracker struct {
	mu      sync.Mutex
	storage Storage
	key     string
	log     *zap.Logger
	state   State

	discardCorrupt bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithKey overrides StorageKey.
func WithKey(key string) Option {
	return func(t *Tracker) { t.key = key }
}

// DiscardCorrupt makes Open start from zero instead of failing when the
// stored blob cannot be decoded. Nothing is written until the next mutation.
func DiscardCorrupt() Option {
	return func(t *Tracker) { t.discardCorrupt = true }
}

// WithLogger sets the logger used for persistence events.
func WithLogger(log *zap.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// Open loads the persisted state from storage, or starts from zero if
// nothing is stored. A blob that cannot be decoded yields an error
// matching ErrCorruptState.
func Open(ctx context.Context, storage Storage, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		storage: storage,
		key:     StorageKey,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	data, err := storage.Load(ctx, t.key)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if len(data) == 0 {
		return t, nil
	}

	state, err := decodeState(data)
	if err != nil {
		if !t.discardCorrupt {
			return nil, err
		}
		t.log.Warn("discarding unreadable progress", zap.String("key", t.key), zap.Error(err))
		return t, nil
	}
	t.state = state
	t.log.Debug("progress loaded",
		zap.Int("total_completed", state.TotalCompleted),
		zap.Int("overall", state.OverallProgress),
		zap.Int("achievements", state.Achievements))
	return t, nil
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// UpdateProgress sets the skill's score to value clamped to [0,100]. The
// score is overwritten, so it can go down, while the achievement tier
// never does.
func (t *Tracker) UpdateProgress(ctx context.Context, skill Skill, value int) (State, error) {
	if !skill.Valid() {
		return t.State(), &InvalidSkillError{Skill: string(skill)}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state
	next.Skills.set(skill, clamp(value))
	return t.commit(ctx, next.recompute())
}

// AddTime adds minutes of practice. Negative values are rejected.
func (t *Tracker) AddTime(ctx context.Context, minutes int) (State, error) {
	if minutes < 0 {
		return t.State(), fmt.Errorf("%w: minutes must be non-negative, got %d", ErrInvalidArgument, minutes)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state
	next.TotalTime += minutes
	return t.commit(ctx, next.recompute())
}

// CompleteActivity records one finished activity.
func (t *Tracker) CompleteActivity(ctx context.Context) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.commit(ctx, t.state.completeOne().recompute())
}

// Reset restores the zero state and persists it.
func (t *Tracker) Reset(ctx context.Context) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.commit(ctx, State{})
}

// commit must be called with t.mu held.
func (t *Tracker) commit(ctx context.Context, next State) (State, error) {
	data, err := encodeState(next)
	if err != nil {
		return t.state, fmt.Errorf("encode progress: %w", err)
	}
	if err := t.storage.Save(ctx, t.key, data); err != nil {
		t.log.Warn("progress not saved", zap.String("key", t.key), zap.Error(err))
		return t.state, fmt.Errorf("save progress: %w", err)
	}
	t.state = next
	return next, nil
}
