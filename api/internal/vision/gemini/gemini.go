package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"buggloo/api/internal/insect"
)

// Engine is the Gemini alternative to the default OpenAI backend. Gemini
// has no json_schema response format on this API surface, so the schema
// is embedded in the system instruction and the response is forced to
// application/json; the classifier validates it the same way.
type Engine struct {
	APIKey    string
	Model     string
	MaxTokens int
}

func New(apiKey, model string, maxTokens int) *Engine {
	return &Engine{
		APIKey:    strings.TrimSpace(apiKey),
		Model:     strings.TrimSpace(model),
		MaxTokens: maxTokens,
	}
}

func (e *Engine) Name() string { return "gemini" }

func (e *Engine) Identify(ctx context.Context, image []byte) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	if len(image) == 0 {
		return "", errors.New("image is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(1),
		MaxOutputTokens:  ptrInt32(int32(e.MaxTokens)),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(insect.IdentificationPrompt() +
				"\nAnswer with a single JSON object conforming exactly to this schema, nothing else:"),
			genai.Text("\n" + insect.SchemaJSON()),
		},
	}

	resp, err := m.GenerateContent(ctx,
		genai.Text("Respond with strict JSON per the insect_info schema."),
		&genai.Blob{MIMEType: "image/jpeg", Data: image},
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(firstText(resp)), nil
}

func (e *Engine) Chat(ctx context.Context, systemPrompt, message string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     ptrFloat32(1),
		MaxOutputTokens: ptrInt32(int32(e.MaxTokens)),
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(firstText(resp)), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok && strings.TrimSpace(string(t)) != "" {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
