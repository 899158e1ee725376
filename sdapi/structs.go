package sdapi

import (
	"image"
	"net/url"
	"strconv"
	"time"
)

type GenerationRequest struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	Steps          int
	GuidanceScale  float64
	Seed           *int64
}

// Form encodes the request the way /generate expects it. Optional fields
// are left out when unset.
func (r *GenerationRequest) Form() url.Values {
	form := url.Values{}
	form.Set("prompt", r.Prompt)
	if r.NegativePrompt != "" {
		form.Set("negative_prompt", r.NegativePrompt)
	}
	form.Set("height", strconv.Itoa(r.Height))
	form.Set("width", strconv.Itoa(r.Width))
	form.Set("num_inference_steps", strconv.Itoa(r.Steps))
	form.Set("guidance_scale", strconv.FormatFloat(r.GuidanceScale, 'f', -1, 64))
	if r.Seed != nil {
		form.Set("seed", strconv.FormatInt(*r.Seed, 10))
	}
	return form
}

// RawResponse is what came back from /generate before decoding.
type RawResponse struct {
	StatusCode int
	Body       []byte
	Elapsed    time.Duration
}

type generateResponse struct {
	Success       *bool    `json:"success"`
	ImageBase64   *string  `json:"image_base64"`
	Seed          *int64   `json:"seed"`
	InferenceTime *float64 `json:"inference_time"`
	Message       string   `json:"message,omitempty"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}

// Result is a successfully decoded generation.
type Result struct {
	Image         image.Image
	Format        string
	Seed          int64
	InferenceTime time.Duration
}
