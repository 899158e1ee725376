package sdapi

import (
	"math"
	"strings"
	"testing"

	"github.com/ayunami2000/sdgen/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *GenerationRequest {
	return &GenerationRequest{
		Prompt:        "a cat sitting on a sofa",
		Width:         config.DefaultWidth,
		Height:        config.DefaultHeight,
		Steps:         config.DefaultSteps,
		GuidanceScale: config.DefaultGuidanceScale,
	}
}

func TestValidate_Prompt(t *testing.T) {
	limits := config.DefaultLimits()

	invalid := map[string]string{
		"empty":          "",
		"space":          " ",
		"tabs":           "\t\t",
		"mixed blanks":   " \n\t \r ",
		"too long":       strings.Repeat("a", 501),
		"too many runes": strings.Repeat("猫", 501),
	}
	for name, prompt := range invalid {
		t.Run("rejects "+name, func(t *testing.T) {
			req := validRequest()
			req.Prompt = prompt

			err := req.Validate(limits)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), "Prompt")
		})
	}

	valid := map[string]string{
		"single char":    "a",
		"padded":         "  a  ",
		"max length":     strings.Repeat("b", 500),
		"max runes":      strings.Repeat("猫", 500),
		"inner newlines": "sunset\nover mountains",
	}
	for name, prompt := range valid {
		t.Run("accepts "+name, func(t *testing.T) {
			req := validRequest()
			req.Prompt = prompt
			assert.NoError(t, req.Validate(limits))
		})
	}
}

func TestValidate_Bounds(t *testing.T) {
	limits := config.DefaultLimits()

	tests := []struct {
		name    string
		mutate  func(r *GenerationRequest)
		wantErr string
	}{
		{"width below", func(r *GenerationRequest) { r.Width = 255 }, "Width"},
		{"width above", func(r *GenerationRequest) { r.Width = 1025 }, "Width"},
		{"width min", func(r *GenerationRequest) { r.Width = 256 }, ""},
		{"width max", func(r *GenerationRequest) { r.Width = 1024 }, ""},
		{"height below", func(r *GenerationRequest) { r.Height = 255 }, "Height"},
		{"height above", func(r *GenerationRequest) { r.Height = 1025 }, "Height"},
		{"height min", func(r *GenerationRequest) { r.Height = 256 }, ""},
		{"height max", func(r *GenerationRequest) { r.Height = 1024 }, ""},
		{"steps zero", func(r *GenerationRequest) { r.Steps = 0 }, "Steps"},
		{"steps above", func(r *GenerationRequest) { r.Steps = 101 }, "Steps"},
		{"steps min", func(r *GenerationRequest) { r.Steps = 1 }, ""},
		{"steps max", func(r *GenerationRequest) { r.Steps = 100 }, ""},
		{"guidance below", func(r *GenerationRequest) { r.GuidanceScale = 0.99 }, "Guidance"},
		{"guidance above", func(r *GenerationRequest) { r.GuidanceScale = 20.01 }, "Guidance"},
		{"guidance NaN", func(r *GenerationRequest) { r.GuidanceScale = math.NaN() }, "Guidance"},
		{"guidance min", func(r *GenerationRequest) { r.GuidanceScale = 1.0 }, ""},
		{"guidance max", func(r *GenerationRequest) { r.GuidanceScale = 20.0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := req.Validate(limits)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_FirstViolationWins(t *testing.T) {
	req := validRequest()
	req.Prompt = ""
	req.Width = 1
	req.Steps = 0

	err := req.Validate(config.DefaultLimits())
	require.Error(t, err)
	assert.Equal(t, "Prompt cannot be empty", err.Error())
}

func TestValidate_CustomLimits(t *testing.T) {
	limits := config.DefaultLimits()
	limits.MaxSize = 512

	req := validRequest()
	req.Width = 768
	assert.ErrorIs(t, req.Validate(limits), ErrValidation)
}
