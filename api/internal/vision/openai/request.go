package openai

import (
	"encoding/base64"
	"errors"

	"buggloo/api/internal/insect"
	"buggloo/api/internal/util"
)

// ErrEmptyImage is returned before any encoding work when the payload is
// empty; no request leaves the process in that case.
var ErrEmptyImage = errors.New("image is empty")

// buildIdentifyBody assembles the identification request: the fixed
// prompt and the image as two content parts of a single user turn, the
// insect_info schema as the mandated output format, and the sampling
// parameters the upstream contract fixes (temperature 1, top_p 1, no
// penalties). Pure assembly, no I/O.
func buildIdentifyBody(model string, maxTokens int, image []byte) (map[string]any, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	dataURL := util.MakeDataURL("image/jpeg", base64.StdEncoding.EncodeToString(image))

	return map[string]any{
		"model": model,
		"messages": []any{
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": insect.IdentificationPrompt()},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
				},
			},
		},
		"response_format":       insect.ResponseFormat(),
		"max_completion_tokens": maxTokens,
		"temperature":           1,
		"top_p":                 1,
		"frequency_penalty":     0,
		"presence_penalty":      0,
		"store":                 false,
	}, nil
}

func buildChatBody(model string, maxTokens int, systemPrompt, message string) map[string]any {
	return map[string]any{
		"model": model,
		"messages": []any{
			map[string]any{"role": "system", "content": systemPrompt},
			map[string]any{"role": "user", "content": message},
		},
		"max_completion_tokens": maxTokens,
		"temperature":           1,
		"top_p":                 1,
	}
}
