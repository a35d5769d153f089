package port

import (
	"context"
	"io"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

// UploadService is an interface to define the chunked upload operations
type UploadService interface {
	Open(ctx context.Context, name, owner, operator string) (*domain.UploadSession, error)
	WriteChunk(ctx context.Context, sessionID int64, index int, signature, operator string, payload io.Reader) (*domain.UploadChunk, error)
	ListChunks(ctx context.Context, sessionID int64) ([]domain.UploadChunk, error)
	Close(ctx context.Context, sessionID int64, operator string) (domain.Result, error)
}
