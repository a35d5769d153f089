package upload

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/open", h.OpenV1)
	router.Put("/{sessionID}/chunk/{index}", h.WriteChunkV1)
	router.Get("/{sessionID}/chunk", h.GetChunksV1)
	router.Post("/{sessionID}/close", h.CloseV1)

	return router
}
