package sdapi

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ayunami2000/sdgen/config"
)

// Validate reports the first field of r outside limits. It never touches
// the network.
func (r *GenerationRequest) Validate(limits config.Limits) error {
	if r.Prompt == "" {
		return newError(ErrValidation, "Prompt cannot be empty", nil)
	}

	if strings.TrimSpace(r.Prompt) == "" {
		return newError(ErrValidation, "Prompt cannot be only whitespace", nil)
	}

	if utf8.RuneCountInString(r.Prompt) > limits.MaxPromptLength {
		return newError(ErrValidation, fmt.Sprintf("Prompt cannot exceed %d characters", limits.MaxPromptLength), nil)
	}

	if r.Height < limits.MinSize || r.Height > limits.MaxSize {
		return newError(ErrValidation, fmt.Sprintf("Height must be between %d and %d", limits.MinSize, limits.MaxSize), nil)
	}

	if r.Width < limits.MinSize || r.Width > limits.MaxSize {
		return newError(ErrValidation, fmt.Sprintf("Width must be between %d and %d", limits.MinSize, limits.MaxSize), nil)
	}

	if r.Steps < limits.MinSteps || r.Steps > limits.MaxSteps {
		return newError(ErrValidation, fmt.Sprintf("Steps must be between %d and %d", limits.MinSteps, limits.MaxSteps), nil)
	}

	// Negated so that NaN is rejected too.
	if !(r.GuidanceScale >= limits.MinGuidance && r.GuidanceScale <= limits.MaxGuidance) {
		return newError(ErrValidation, fmt.Sprintf("Guidance scale must be between %.1f and %.1f", limits.MinGuidance, limits.MaxGuidance), nil)
	}

	return nil
}
