package progress

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSkill matches every *InvalidSkillError.
	ErrInvalidSkill = errors.New("invalid skill")

	// ErrInvalidArgument is returned for out-of-domain numeric input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorruptState is returned by Open when the stored state cannot be decoded.
	ErrCorruptState = errors.New("corrupt progress state")
)

// InvalidSkillError reports a skill name outside the closed set.
type InvalidSkillError struct {
	Skill string
}

func (e *InvalidSkillError) Error() string {
	return fmt.Sprintf("invalid skill %q: must be one of reading, writing, listening, speaking", e.Skill)
}

func (e *InvalidSkillError) Is(target error) bool { return target == ErrInvalidSkill }
