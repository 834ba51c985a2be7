package handle

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"buggloo/api/internal/identify"
	"buggloo/api/internal/insect"
)

// Identify accepts a multipart image upload and answers with the
// identification envelope. Engine selection comes from the optional
// "engine" query parameter (default gpt).
func (h *Handle) Identify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, failure("FILE_TOO_LARGE", "the uploaded image is too large"))
		return
	}
	file, hdr, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failure("INVALID_IMAGE", "no image file provided"))
		return
	}
	defer file.Close()

	if err := validateImage(hdr); err != nil {
		writeJSON(w, http.StatusBadRequest, failure("INVALID_IMAGE", err.Error()))
		return
	}
	img, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failure("INVALID_IMAGE", "could not read image"))
		return
	}
	if len(img) > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, failure("FILE_TOO_LARGE", "the uploaded image is too large"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	out, err := h.svc.Identify(ctx, r.URL.Query().Get("engine"), img)
	if err != nil {
		if errors.Is(err, identify.ErrEmptyImage) {
			writeJSON(w, http.StatusBadRequest, failure("INVALID_IMAGE", "no image file provided"))
			return
		}
		log.Printf("identify: %v", err)
		writeJSON(w, http.StatusBadGateway, failure("SERVICE_FAILED", err.Error()))
		return
	}

	switch out.Kind {
	case insect.Identified:
		log.Printf("identify: %s (%s)", out.Insect.CommonName, out.Insect.ScientificName)
		writeJSON(w, http.StatusOK, success(out.Insect, "insect identification completed successfully"))
	case insect.NotAnInsect:
		log.Printf("identify: not an insect (%s)", out.Insect.CommonName)
		writeJSON(w, http.StatusOK, success(out.Insect, "the subject is not an insect"))
	case insect.Failed:
		log.Printf("identify failed: %s", out.Reason)
		writeJSON(w, http.StatusBadGateway, failure("SERVICE_FAILED", out.Reason))
	default:
		writeJSON(w, http.StatusInternalServerError, failure("INTERNAL_ERROR", "unexpected outcome"))
	}
}

// requestContext bounds the model call; not part of the pipeline itself.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	deadline := 120 * time.Second
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	return context.WithTimeout(r.Context(), deadline)
}
