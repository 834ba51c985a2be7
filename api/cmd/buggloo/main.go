package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"buggloo/api/internal/config"
	"buggloo/api/internal/handle"
	"buggloo/api/internal/identify"
	"buggloo/api/internal/insect"
	"buggloo/api/internal/vision"
	"buggloo/api/internal/vision/gemini"
	"buggloo/api/internal/vision/openai"
)

func main() {
	cfg := config.Load()

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	} else if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	// Schema and result type must agree before we answer anything.
	if err := insect.VerifySchema(); err != nil {
		log.Fatalf("schema check: %v", err)
	}

	engines := &vision.Engines{
		OpenAI: openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.MaxCompletionTokens),
	}
	if cfg.GeminiAPIKey != "" {
		engines.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxCompletionTokens)
	}

	h := handle.New(identify.New(engines))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/insect/identify", h.Identify)
	mux.HandleFunc("/insect/chat", h.Chat)
	mux.HandleFunc("/insect/health", h.Health)

	addr := ":" + cfg.Port
	log.Printf("buggloo listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
