package identify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"buggloo/api/internal/insect"
	"buggloo/api/internal/vision"
)

type fakeEngine struct {
	raw         string
	identifyErr error
	reply       string
	chatErr     error

	identifyCalls int
	chatCalls     int
	lastPrompt    string
	lastMessage   string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Identify(ctx context.Context, image []byte) (string, error) {
	f.identifyCalls++
	return f.raw, f.identifyErr
}

func (f *fakeEngine) Chat(ctx context.Context, systemPrompt, message string) (string, error) {
	f.chatCalls++
	f.lastPrompt = systemPrompt
	f.lastMessage = message
	return f.reply, f.chatErr
}

func newService(eng vision.Engine) *Service {
	return New(&vision.Engines{OpenAI: eng})
}

// fullAnswer builds a schema-conforming reply for the fake engine.
func fullAnswer(t *testing.T, overrides map[string]any) string {
	t.Helper()
	m := make(map[string]any)
	for _, f := range insect.Fields() {
		switch f.Type {
		case "string":
			m[f.Name] = "unknown"
		case "boolean":
			m[f.Name] = false
		case "integer":
			m[f.Name] = 0
		case "array":
			m[f.Name] = []string{}
		}
	}
	for k, v := range overrides {
		m[k] = v
	}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestIdentifyEmptyImageNeverCallsEngine(t *testing.T) {
	eng := &fakeEngine{}
	svc := newService(eng)

	_, err := svc.Identify(context.Background(), "", nil)
	if !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("err = %v, want ErrEmptyImage", err)
	}
	if eng.identifyCalls != 0 {
		t.Errorf("engine called %d times, want 0", eng.identifyCalls)
	}
}

func TestIdentifyBeetle(t *testing.T) {
	eng := &fakeEngine{raw: fullAnswer(t, map[string]any{
		"is_insect":   true,
		"common_name": "Ladybird",
		"leg_count":   6,
	})}
	svc := newService(eng)

	out, err := svc.Identify(context.Background(), "", []byte{0xFF, 0xD8, 0x01})
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != insect.Identified {
		t.Fatalf("kind = %v, want Identified (reason %q)", out.Kind, out.Reason)
	}
	if out.Insect.CommonName != "Ladybird" {
		t.Errorf("common_name = %q, want Ladybird", out.Insect.CommonName)
	}
	if eng.identifyCalls != 1 {
		t.Errorf("engine called %d times, want 1", eng.identifyCalls)
	}
}

func TestIdentifySpider(t *testing.T) {
	eng := &fakeEngine{raw: fullAnswer(t, map[string]any{
		"is_insect":   false,
		"common_name": "Garden spider",
		"leg_count":   8,
	})}
	svc := newService(eng)

	out, err := svc.Identify(context.Background(), "", []byte{0xFF, 0xD8, 0x01})
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != insect.NotAnInsect {
		t.Fatalf("kind = %v, want NotAnInsect", out.Kind)
	}
	if out.Insect == nil || out.Insect.CommonName != "Garden spider" {
		t.Errorf("descriptive payload lost: %+v", out.Insect)
	}
}

func TestIdentifyMalformedAnswer(t *testing.T) {
	eng := &fakeEngine{raw: `{"is_insect": true, "common_na`}
	svc := newService(eng)

	out, err := svc.Identify(context.Background(), "", []byte{0xFF, 0xD8, 0x01})
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != insect.Failed || out.Reason != insect.ReasonMalformed {
		t.Fatalf("outcome = %v/%q, want Failed/%q", out.Kind, out.Reason, insect.ReasonMalformed)
	}
}

func TestIdentifyNoContent(t *testing.T) {
	eng := &fakeEngine{raw: ""}
	svc := newService(eng)

	out, err := svc.Identify(context.Background(), "", []byte{0xFF, 0xD8, 0x01})
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != insect.Failed || out.Reason != insect.ReasonNoResult {
		t.Fatalf("outcome = %v/%q, want Failed/%q", out.Kind, out.Reason, insect.ReasonNoResult)
	}
}

func TestIdentifyTransportError(t *testing.T) {
	eng := &fakeEngine{identifyErr: errors.New("connection refused")}
	svc := newService(eng)

	_, err := svc.Identify(context.Background(), "", []byte{0xFF, 0xD8, 0x01})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("err = %v, want wrapped transport error", err)
	}
}

func TestIdentifyUnknownEngine(t *testing.T) {
	svc := newService(&fakeEngine{})
	if _, err := svc.Identify(context.Background(), "claude", []byte{1}); err == nil {
		t.Fatal("want error for unknown engine")
	}
}

func TestChatEmptyMessageNeverCallsEngine(t *testing.T) {
	eng := &fakeEngine{}
	svc := newService(eng)

	_, err := svc.Chat(context.Background(), "", "", "   ", "Ladybird")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
	if eng.chatCalls != 0 {
		t.Errorf("engine called %d times, want 0", eng.chatCalls)
	}
}

func TestChatReply(t *testing.T) {
	eng := &fakeEngine{reply: "They live two to three years."}
	svc := newService(eng)

	past := "User: hi\nAssistant: hello"
	got, err := svc.Chat(context.Background(), "", past, "How long do they live?", "Stag beetle")
	if err != nil {
		t.Fatal(err)
	}
	if got != eng.reply {
		t.Errorf("reply = %q", got)
	}
	if eng.lastMessage != "How long do they live?" {
		t.Errorf("message passed = %q", eng.lastMessage)
	}
	if !strings.Contains(eng.lastPrompt, "Stag beetle") || !strings.Contains(eng.lastPrompt, past) {
		t.Errorf("prompt missing subject or transcript: %q", eng.lastPrompt)
	}
}

func TestChatEmptyModelResponse(t *testing.T) {
	eng := &fakeEngine{reply: "   "}
	svc := newService(eng)

	_, err := svc.Chat(context.Background(), "", "", "hello", "")
	if err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("err = %v, want empty response error", err)
	}
}
