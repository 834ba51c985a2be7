package handle

import (
	"errors"
	"log"
	"net/http"

	"buggloo/api/internal/identify"
)

// Chat answers one follow-up question. Form fields: message (required),
// pastConversation and insectName (optional); the client carries the
// transcript between calls.
func (h *Handle) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, failure("INVALID_REQUEST", "bad form: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	reply, err := h.svc.Chat(ctx,
		r.URL.Query().Get("engine"),
		r.PostFormValue("pastConversation"),
		r.PostFormValue("message"),
		r.PostFormValue("insectName"),
	)
	if err != nil {
		if errors.Is(err, identify.ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, failure("INVALID_REQUEST", "message is required"))
			return
		}
		log.Printf("chat: %v", err)
		writeJSON(w, http.StatusBadGateway, failure("SERVICE_FAILED", err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, success(reply, "chat response generated successfully"))
}
