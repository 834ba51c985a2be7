package vision

import (
	"context"
	"errors"
)

// Engine is one vision-capable model backend. Identify performs exactly
// one outbound call pairing the image with the identification prompt and
// the insect_info schema; it returns the raw first-choice text, or "" when
// the model produced no choices or no content; that is a valid outcome,
// distinct from a transport error. Chat is the schema-less follow-up call.
type Engine interface {
	Name() string
	Identify(ctx context.Context, image []byte) (string, error)
	Chat(ctx context.Context, systemPrompt, message string) (string, error)
}

type Engines struct {
	OpenAI Engine
	Gemini Engine
}

// Get resolves an engine by name; empty name means the OpenAI default.
func (e *Engines) Get(name string) (Engine, error) {
	switch name {
	case "", "gpt", "openai":
		if e.OpenAI == nil {
			return nil, errors.New("openai engine is not configured")
		}
		return e.OpenAI, nil
	case "gemini":
		if e.Gemini == nil {
			return nil, errors.New("gemini engine is not configured")
		}
		return e.Gemini, nil
	default:
		return nil, errors.New("unknown engine; use 'gpt' or 'gemini'")
	}
}
