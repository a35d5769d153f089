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

type V1Chunk struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

type V1GetChunksResponse struct {
	Chunks []V1Chunk `json:"chunks"`
}

func (h *HandlerV1) GetChunksV1(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid session ID", http.StatusBadRequest)
		return
	}

	chunks, err := h.uploadService.ListChunks(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error listing chunks", "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	resp := V1GetChunksResponse{Chunks: make([]V1Chunk, 0, len(chunks))}
	for _, c := range chunks {
		resp.Chunks = append(resp.Chunks, V1Chunk{
			ID:        c.ID,
			Name:      c.Name,
			Size:      c.Size,
			CreatedAt: c.CreateTime,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
