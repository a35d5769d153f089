package port

import (
	"context"
	"time"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

// SessionRepository is an interface to interact with upload session rows
type SessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) (*domain.UploadSession, error)
	FindByID(ctx context.Context, id int64) (*domain.UploadSession, error)
	// FindOldestAfter returns the session with the smallest id greater than
	// cursor created before the given boundary, or ErrSessionNotFound.
	FindOldestAfter(ctx context.Context, cursor int64, createdBefore time.Time) (*domain.UploadSession, error)
	// Update writes every mutable field of the session guarded by its current
	// Version; the stored version is bumped by one. Returns rows affected, so
	// 0 means the guard did not match and the caller lost the race.
	Update(ctx context.Context, session domain.UploadSession) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// ChunkRepository is an interface to interact with upload chunk rows
type ChunkRepository interface {
	Create(ctx context.Context, chunk domain.UploadChunk) (*domain.UploadChunk, error)
	FindBySessionID(ctx context.Context, sessionID int64) ([]domain.UploadChunk, error)
	FindOldestAfter(ctx context.Context, cursor int64, createdBefore time.Time) (*domain.UploadChunk, error)
	DeleteBySessionID(ctx context.Context, sessionID int64) (int64, error)
}
