package handle

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"buggloo/api/internal/identify"
	"buggloo/api/internal/insect"
	"buggloo/api/internal/vision"
)

type stubEngine struct {
	raw   string
	reply string
	err   error
	calls int
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Identify(ctx context.Context, image []byte) (string, error) {
	s.calls++
	return s.raw, s.err
}

func (s *stubEngine) Chat(ctx context.Context, systemPrompt, message string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func newHandle(eng *stubEngine) *Handle {
	return New(identify.New(&vision.Engines{OpenAI: eng}))
}

// beetleAnswer is a full schema-conforming reply.
func beetleAnswer(t *testing.T, isInsect bool, commonName string) string {
	t.Helper()
	m := make(map[string]any)
	for _, f := range insect.Fields() {
		switch f.Type {
		case "string":
			m[f.Name] = ""
		case "boolean":
			m[f.Name] = false
		case "integer":
			m[f.Name] = 0
		case "array":
			m[f.Name] = []string{}
		}
	}
	m["is_insect"] = isInsect
	m["common_name"] = commonName
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func multipartImage(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response JSON: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestIdentifySuccess(t *testing.T) {
	eng := &stubEngine{raw: beetleAnswer(t, true, "Ladybird")}
	h := newHandle(eng)

	body, ct := multipartImage(t, "bug.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0x01})
	req := httptest.NewRequest(http.MethodPost, "/insect/identify", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Identify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("success = false: %+v", resp)
	}
	data := resp.Data.(map[string]any)
	if data["common_name"] != "Ladybird" {
		t.Errorf("common_name = %v", data["common_name"])
	}
}

func TestIdentifyNotAnInsectKeepsPayload(t *testing.T) {
	eng := &stubEngine{raw: beetleAnswer(t, false, "Garden spider")}
	h := newHandle(eng)

	body, ct := multipartImage(t, "spider.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0x01})
	req := httptest.NewRequest(http.MethodPost, "/insect/identify", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Identify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !strings.Contains(resp.Message, "not an insect") {
		t.Errorf("message = %q", resp.Message)
	}
	data := resp.Data.(map[string]any)
	if data["common_name"] != "Garden spider" {
		t.Errorf("payload dropped: %v", data)
	}
}

func TestIdentifyMalformedModelAnswer(t *testing.T) {
	eng := &stubEngine{raw: `{"is_insect": tru`}
	h := newHandle(eng)

	body, ct := multipartImage(t, "bug.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0x01})
	req := httptest.NewRequest(http.MethodPost, "/insect/identify", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Identify(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error != "SERVICE_FAILED" || resp.Message != insect.ReasonMalformed {
		t.Errorf("resp = %+v", resp)
	}
}

func TestIdentifyRejectsBadContentType(t *testing.T) {
	eng := &stubEngine{}
	h := newHandle(eng)

	body, ct := multipartImage(t, "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/insect/identify", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Identify(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if eng.calls != 0 {
		t.Errorf("engine called %d times for an invalid upload", eng.calls)
	}
	resp := decodeResponse(t, rec)
	if resp.Error != "INVALID_IMAGE" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestIdentifyMissingFile(t *testing.T) {
	h := newHandle(&stubEngine{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("note", "no image here")
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/insect/identify", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Identify(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestIdentifyMethodNotAllowed(t *testing.T) {
	h := newHandle(&stubEngine{})
	req := httptest.NewRequest(http.MethodGet, "/insect/identify", nil)
	rec := httptest.NewRecorder()

	h.Identify(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestChatEmptyMessage(t *testing.T) {
	eng := &stubEngine{}
	h := newHandle(eng)

	form := url.Values{"message": {"   "}, "insectName": {"Ladybird"}}
	req := httptest.NewRequest(http.MethodPost, "/insect/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.Chat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if eng.calls != 0 {
		t.Errorf("engine called %d times for an empty message", eng.calls)
	}
}

func TestChatSuccess(t *testing.T) {
	eng := &stubEngine{reply: "Ladybirds hibernate through winter."}
	h := newHandle(eng)

	form := url.Values{
		"message":          {"What do they do in winter?"},
		"insectName":       {"Ladybird"},
		"pastConversation": {"User: hi\nAssistant: hello"},
	}
	req := httptest.NewRequest(http.MethodPost, "/insect/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.Chat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp.Data != eng.reply {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestHealth(t *testing.T) {
	h := newHandle(&stubEngine{})
	req := httptest.NewRequest(http.MethodGet, "/insect/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !decodeResponse(t, rec).Success {
		t.Error("health must report success")
	}
}
