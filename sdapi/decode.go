package sdapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

var errMissingImage = errors.New("response has no image_base64 field")

// Decode turns a /generate response into a Result. requestedSeed is used
// when the service does not echo the seed back.
func Decode(raw *RawResponse, requestedSeed *int64) (*Result, error) {
	if raw.StatusCode != http.StatusOK {
		return nil, newError(ErrGeneration, "API error: "+errorDetail(raw.Body), nil)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw.Body, &parsed); err != nil {
		return nil, newError(ErrInvalidResponse, "Invalid JSON response", err)
	}

	if parsed.Success == nil || !*parsed.Success {
		message := parsed.Message
		if message == "" {
			message = "Generation failed"
		}
		return nil, newError(ErrGeneration, message, nil)
	}

	if parsed.ImageBase64 == nil {
		return nil, newError(ErrInvalidResponse, "Failed to decode image", errMissingImage)
	}

	data, err := decodeBase64(*parsed.ImageBase64)
	if err != nil {
		return nil, newError(ErrInvalidResponse, "Failed to decode image", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, newError(ErrInvalidResponse, "Failed to decode image", err)
	}

	res := &Result{
		Image:         img,
		Format:        format,
		InferenceTime: raw.Elapsed,
	}

	switch {
	case parsed.Seed != nil:
		res.Seed = *parsed.Seed
	case requestedSeed != nil:
		res.Seed = *requestedSeed
	}

	if parsed.InferenceTime != nil {
		res.InferenceTime = time.Duration(*parsed.InferenceTime * float64(time.Second))
	}

	return res, nil
}

// decodeBase64 accepts plain or data URL payloads, padded or not.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[i+1:]
		}
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
		return raw, nil
	}

	return nil, err
}

// errorDetail prefers a JSON "detail" field and falls back to the raw body.
func errorDetail(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Detail == nil {
		return string(body)
	}

	if s, ok := parsed.Detail.(string); ok {
		return s
	}

	b, err := json.Marshal(parsed.Detail)
	if err != nil {
		return string(body)
	}
	return string(b)
}
