package progress

import (
	"encoding/json"
	"fmt"
	"math"
)

// SkillScores holds a percentage in [0,100] for each skill.
type SkillScores struct {
	Reading   int `json:"reading"`
	Writing   int `json:"writing"`
	Listening int `json:"listening"`
	Speaking  int `json:"speaking"`
}

// Get returns the score for skill, or 0 for an unknown skill.
func (s SkillScores) Get(skill Skill) int {
	switch skill {
	case Reading:
		return s.Reading
	case Writing:
		return s.Writing
	case Listening:
		return s.Listening
	case Speaking:
		return s.Speaking
	}
	return 0
}

func (s *SkillScores) set(skill Skill, v int) {
	switch skill {
	case Reading:
		s.Reading = v
	case Writing:
		s.Writing = v
	case Listening:
		s.Listening = v
	case Speaking:
		s.Speaking = v
	}
}

// Mean is the unrounded average of the four scores.
func (s SkillScores) Mean() float64 {
	return float64(s.Reading+s.Writing+s.Listening+s.Speaking) / 4
}

func (s SkillScores) allAtLeast(v int) bool {
	return s.Reading >= v && s.Writing >= v && s.Listening >= v && s.Speaking >= v
}

// State is the persisted learner progress.
type State struct {
	TotalCompleted  int         `json:"totalCompleted"`
	TotalTime       int         `json:"totalTime"`
	OverallProgress int         `json:"overallProgress"`
	Achievements    int         `json:"achievements"`
	Skills          SkillScores `json:"skills"`
}

// recompute derives OverallProgress from the skills and raises the
// achievement tier for skill thresholds. The tier is never lowered.
func (s State) recompute() State {
	mean := s.Skills.Mean()
	s.OverallProgress = int(math.Round(mean))

	if mean >= 50 {
		s.Achievements = max(s.Achievements, TierHalfway)
	}
	if mean >= 75 {
		s.Achievements = max(s.Achievements, TierAdvanced)
	}
	if s.Skills.allAtLeast(100) {
		s.Achievements = max(s.Achievements, TierMaster)
	}
	return s
}

// completeOne increments TotalCompleted and raises the tier to every
// milestone crossed by the increment.
func (s State) completeOne() State {
	prev := s.TotalCompleted
	s.TotalCompleted++
	for _, m := range Milestones {
		if prev < m && s.TotalCompleted >= m {
			s.Achievements = max(s.Achievements, m)
		}
	}
	return s
}

// storedState accepts any JSON number so that hand-edited or foreign
// blobs still load.
type storedState struct {
	TotalCompleted float64 `json:"totalCompleted"`
	TotalTime      float64 `json:"totalTime"`
	Achievements   float64 `json:"achievements"`
	Skills         struct {
		Reading   float64 `json:"reading"`
		Writing   float64 `json:"writing"`
		Listening float64 `json:"listening"`
		Speaking  float64 `json:"speaking"`
	} `json:"skills"`
}

// decodeState parses a persisted blob. Unknown keys, including unknown
// skills and the stored overallProgress, are ignored; values are clamped
// and the derived fields recomputed.
func decodeState(data []byte) (State, error) {
	var raw storedState
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	s := State{
		TotalCompleted: nonNegative(raw.TotalCompleted),
		TotalTime:      nonNegative(raw.TotalTime),
		Achievements:   nonNegative(raw.Achievements),
		Skills: SkillScores{
			Reading:   clampScore(raw.Skills.Reading),
			Writing:   clampScore(raw.Skills.Writing),
			Listening: clampScore(raw.Skills.Listening),
			Speaking:  clampScore(raw.Skills.Speaking),
		},
	}
	return s.recompute(), nil
}

func encodeState(s State) ([]byte, error) {
	return json.Marshal(s)
}

// clamp bounds v to [0,100].
func clamp(v int) int {
	return min(100, max(0, v))
}

func clampScore(v float64) int {
	return clamp(int(math.Round(v)))
}

func nonNegative(v float64) int {
	return max(0, int(math.Round(v)))
}
