package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

func (h *HandlerV1) CloseV1(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid session ID", http.StatusBadRequest)
		return
	}
	operator := r.Header.Get("X-Operator")

	result, err := h.uploadService.Close(r.Context(), sessionID, operator)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrSessionAlreadyClosed):
		http.Error(w, "session already closed", http.StatusConflict)
		return
	case errors.Is(err, domain.ErrActiveChunks):
		http.Error(w, "chunk uploads still in flight", http.StatusConflict)
		return
	case errors.Is(err, domain.ErrRetryExhausted):
		http.Error(w, "session busy", http.StatusConflict)
		return
	case errors.Is(err, domain.ErrNoChunks):
		http.Error(w, "no chunks to merge", http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrHookRejected):
		http.Error(w, "close rejected", http.StatusForbidden)
		return
	case err != nil:
		h.logger.Error("error closing upload session", "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
	}
}
