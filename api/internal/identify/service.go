package identify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"buggloo/api/internal/insect"
	"buggloo/api/internal/vision"
)

// Caller-input precondition failures. Raised before any engine call so a
// bad request never reaches the model.
var (
	ErrEmptyImage   = errors.New("image is empty")
	ErrEmptyMessage = errors.New("message is empty")
)

// Service runs the identification and chat pipelines over a shared,
// read-only engine registry. It holds no per-call state; concurrent calls
// need no coordination.
type Service struct {
	engines *vision.Engines
}

func New(engines *vision.Engines) *Service {
	return &Service{engines: engines}
}

// Identify runs one identification: one engine call, then strict
// classification of the raw answer. The returned error covers caller
// mistakes (empty image, unknown engine) and transport-level failures;
// everything the model itself got wrong is expressed in the Outcome.
func (s *Service) Identify(ctx context.Context, engineName string, image []byte) (insect.Outcome, error) {
	if len(image) == 0 {
		return insect.Outcome{}, ErrEmptyImage
	}
	eng, err := s.engines.Get(engineName)
	if err != nil {
		return insect.Outcome{}, err
	}

	raw, err := eng.Identify(ctx, image)
	if err != nil {
		return insect.Outcome{}, fmt.Errorf("%s identify: %w", eng.Name(), err)
	}
	return insect.Classify(raw), nil
}

// Chat answers one follow-up message about the (optionally named)
// identified subject. The caller carries the conversation; nothing is
// retained between calls.
func (s *Service) Chat(ctx context.Context, engineName, pastConversation, message, insectName string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	eng, err := s.engines.Get(engineName)
	if err != nil {
		return "", err
	}

	reply, err := eng.Chat(ctx, insect.ChatPrompt(pastConversation, insectName), message)
	if err != nil {
		return "", fmt.Errorf("%s chat: %w", eng.Name(), err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("%s chat: empty response", eng.Name())
	}
	return reply, nil
}
