package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

type V1OpenRequest struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
}

type V1OpenResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	StorageLocation string    `json:"storage_location"`
	CreatedAt       time.Time `json:"created_at"`
}

func (h *HandlerV1) OpenV1(w http.ResponseWriter, r *http.Request) {
	var req V1OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding open request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	session, err := h.uploadService.Open(r.Context(), req.Name, req.Owner, req.Operator)
	switch {
	case errors.Is(err, domain.ErrHookRejected):
		http.Error(w, "upload rejected", http.StatusForbidden)
		return
	case err != nil:
		h.logger.Error("error opening upload session", "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	default:
		resp := V1OpenResponse{
			ID:              session.ID,
			Name:            session.Name,
			StorageLocation: session.StorageLocation,
			CreatedAt:       session.CreateTime,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
	}
}
