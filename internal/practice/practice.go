// Package practice turns finished exercises into progress updates.
package practice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abhisek/engpractice/internal/progress"
)

// ReadingMinutes is the time credited for one reading exercise.
const ReadingMinutes = 15

// ErrDraftTooShort is returned when a writing draft has fewer words than
// its target.
var ErrDraftTooShort = errors.New("draft is shorter than the target word count")

// Recorder is the subset of *progress.Tracker that practice needs.
type Recorder interface {
	UpdateProgress(ctx context.Context, skill progress.Skill, value int) (progress.State, error)
	AddTime(ctx context.Context, minutes int) (progress.State, error)
	CompleteActivity(ctx context.Context) (progress.State, error)
}

// QuizResult is a finished reading or listening quiz.
type QuizResult struct {
	Skill   progress.Skill
	Correct int
	Total   int

	// Duration is the audio length for listening. Ignored for reading.
	Duration time.Duration
}

// QuizScore is round(correct/total*100) plus a 10 point completion bonus,
// capped at 100.
func QuizScore(correct, total int) int {
	pct := int(math.Round(float64(correct) / float64(total) * 100))
	return min(100, pct+10)
}

// RecordQuiz credits a reading or listening quiz.
func RecordQuiz(ctx context.Context, r Recorder, q QuizResult) (progress.State, error) {
	if q.Skill != progress.Reading && q.Skill != progress.Listening {
		return progress.State{}, fmt.Errorf("%w: quizzes cover reading and listening, not %q", progress.ErrInvalidArgument, q.Skill)
	}
	if q.Total <= 0 || q.Correct < 0 || q.Correct > q.Total {
		return progress.State{}, fmt.Errorf("%w: %d correct of %d", progress.ErrInvalidArgument, q.Correct, q.Total)
	}

	minutes := ReadingMinutes
	if q.Skill == progress.Listening {
		minutes = roundMinutes(q.Duration)
	}
	return record(ctx, r, q.Skill, QuizScore(q.Correct, q.Total), minutes)
}

// Draft is a writing or speaking attempt saved without evaluation.
type Draft struct {
	Skill progress.Skill

	// Achieved and Target are words written and required for writing, or
	// seconds spoken and exercise length for speaking.
	Achieved int
	Target   int

	Spent time.Duration
}

// DraftScore is round(achieved/target*50 + 25), capped at 100.
func DraftScore(achieved, target int) int {
	ratio := float64(achieved) / float64(target)
	return min(100, int(math.Round(ratio*50+25)))
}

// RecordDraft credits a saved draft. Writing drafts must reach their
// target word count.
func RecordDraft(ctx context.Context, r Recorder, d Draft) (progress.State, error) {
	if d.Skill != progress.Writing && d.Skill != progress.Speaking {
		return progress.State{}, fmt.Errorf("%w: drafts cover writing and speaking, not %q", progress.ErrInvalidArgument, d.Skill)
	}
	if d.Target <= 0 || d.Achieved < 0 {
		return progress.State{}, fmt.Errorf("%w: %d of %d", progress.ErrInvalidArgument, d.Achieved, d.Target)
	}
	if d.Skill == progress.Writing && d.Achieved < d.Target {
		return progress.State{}, fmt.Errorf("%w: %d of %d words", ErrDraftTooShort, d.Achieved, d.Target)
	}
	return record(ctx, r, d.Skill, DraftScore(d.Achieved, d.Target), roundMinutes(d.Spent))
}

// EvaluatedScore converts a rubric score to a skill value.
func EvaluatedScore(score float64) int {
	return min(100, int(math.Round(score)))
}

// RecordEvaluation credits an evaluated writing or speaking submission.
func RecordEvaluation(ctx context.Context, r Recorder, skill progress.Skill, score float64, spent time.Duration) (progress.State, error) {
	if skill != progress.Writing && skill != progress.Speaking {
		return progress.State{}, fmt.Errorf("%w: evaluations cover writing and speaking, not %q", progress.ErrInvalidArgument, skill)
	}
	return record(ctx, r, skill, EvaluatedScore(score), roundMinutes(spent))
}

// CountWords counts whitespace separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

func record(ctx context.Context, r Recorder, skill progress.Skill, value, minutes int) (progress.State, error) {
	if _, err := r.UpdateProgress(ctx, skill, value); err != nil {
		return progress.State{}, fmt.Errorf("update %s: %w", skill, err)
	}
	if _, err := r.AddTime(ctx, minutes); err != nil {
		return progress.State{}, fmt.Errorf("add time: %w", err)
	}
	st, err := r.CompleteActivity(ctx)
	if err != nil {
		return progress.State{}, fmt.Errorf("complete activity: %w", err)
	}
	return st, nil
}

func roundMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Minutes()))
}
