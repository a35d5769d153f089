package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

type V1WriteChunkResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// WriteChunkV1 ingests one raw chunk body. The client declares the chunk's
// digest in the X-Content-Signature header.
func (h *HandlerV1) WriteChunkV1(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid session ID", http.StatusBadRequest)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		http.Error(w, "invalid chunk index", http.StatusBadRequest)
		return
	}
	signature := r.Header.Get("X-Content-Signature")
	if signature == "" {
		http.Error(w, "X-Content-Signature header is required", http.StatusBadRequest)
		return
	}
	operator := r.Header.Get("X-Operator")

	chunk, err := h.uploadService.WriteChunk(r.Context(), sessionID, index, signature, operator, r.Body)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrSessionClosed):
		http.Error(w, "Session closed", http.StatusForbidden)
		return
	case errors.Is(err, domain.ErrRetryExhausted):
		http.Error(w, "session busy", http.StatusConflict)
		return
	case errors.Is(err, domain.ErrChunkTooLarge):
		http.Error(w, "chunk too large", http.StatusRequestEntityTooLarge)
		return
	case errors.Is(err, domain.ErrSignatureMismatch):
		http.Error(w, "signature mismatch", http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrHookRejected):
		http.Error(w, "upload rejected", http.StatusForbidden)
		return
	case err != nil:
		h.logger.Error("error writing chunk", "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	default:
		resp := V1WriteChunkResponse{
			ID:        chunk.ID,
			Name:      chunk.Name,
			Size:      chunk.Size,
			CreatedAt: chunk.CreateTime,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
	}
}
