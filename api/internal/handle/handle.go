package handle

import (
	"encoding/json"
	"net/http"
	"time"

	"buggloo/api/internal/identify"
)

type Handle struct {
	svc *identify.Service
}

func New(svc *identify.Service) *Handle {
	return &Handle{svc: svc}
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func success(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message, Timestamp: time.Now().UTC()}
}

func failure(code, message string) Response {
	return Response{Success: false, Error: code, Message: message, Timestamp: time.Now().UTC()}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handle) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, success("Service is running", "insect identification service is healthy"))
}
