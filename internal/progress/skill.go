package progress

import "strings"

// Skill is one of the four tracked practice dimensions.
type Skill string

const (
	Reading   Skill = "reading"
	Writing   Skill = "writing"
	Listening Skill = "listening"
	Speaking  Skill = "speaking"
)

// Skills lists every skill in display order.
var Skills = []Skill{Reading, Writing, Listening, Speaking}

// Valid reports whether s is one of the four known skills.
func (s Skill) Valid() bool {
	switch s {
	case Reading, Writing, Listening, Speaking:
		return true
	}
	return false
}

func (s Skill) String() string { return string(s) }

// ParseSkill converts a case-insensitive name into a Skill.
func ParseSkill(name string) (Skill, error) {
	s := Skill(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", &InvalidSkillError{Skill: name}
	}
	return s, nil
}
