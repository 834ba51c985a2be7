package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"buggloo/api/internal/util"
)

const completionsURL = "https://api.openai.com/v1/chat/completions"

type Engine struct {
	APIKey    string
	Model     string
	MaxTokens int
	httpc     *http.Client
	baseURL   string
}

func New(key, model string, maxTokens int) *Engine {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second, // TCP connect
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		// First headers can take a while on vision requests; the caller
		// bounds the whole call through ctx.
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}

	return &Engine{
		APIKey:    key,
		Model:     model,
		MaxTokens: maxTokens,
		httpc: &http.Client{
			Timeout:   0,
			Transport: tr,
		},
		baseURL: completionsURL,
	}
}

// WithHTTPClient overrides the internal HTTP client (e.g., for custom timeouts).
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

// WithBaseURL overrides the completions endpoint (tests).
func (e *Engine) WithBaseURL(u string) *Engine {
	if u != "" {
		e.baseURL = u
	}
	return e
}

func (e *Engine) Name() string { return "gpt" }

// Identify sends one chat/completions request carrying the image and the
// insect_info schema and returns the raw answer text. An answer with no
// choices or empty content comes back as "", not as an error.
func (e *Engine) Identify(ctx context.Context, image []byte) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}
	body, err := buildIdentifyBody(e.Model, e.MaxTokens, image)
	if err != nil {
		return "", err
	}
	return e.complete(ctx, body)
}

// Chat sends one schema-less completion: persona instruction as the
// system message, the user's message as-is.
func (e *Engine) Chat(ctx context.Context, systemPrompt, message string) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}
	return e.complete(ctx, buildChatBody(e.Model, e.MaxTokens, systemPrompt, message))
}

func (e *Engine) complete(ctx context.Context, body map[string]any) (string, error) {
	payload, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai %d: %s", resp.StatusCode, strings.TrimSpace(util.Truncate(string(x), 1024)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai: bad envelope: %w", err)
	}
	// No choices or empty content is a valid "no answer" result; the
	// classifier decides what that means.
	if len(out.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
