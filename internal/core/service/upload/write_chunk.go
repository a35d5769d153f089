package upload

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

// WriteChunk ingests one chunk of a session under lock protection. The lock
// is released right after the write attempt, before size and signature
// validation, and on every exit path in between. A chunk row is only created
// for files that passed both checks; a failed check removes the file.
func (u *uploadService) WriteChunk(ctx context.Context, sessionID int64, index int, signature, operator string, payload io.Reader) (*domain.UploadChunk, error) {

	hc := &domain.HookContext{
		Operation: "write_chunk",
		SessionID: sessionID,
		Operator:  operator,
		Extra:     map[string]string{"index": strconv.Itoa(index)},
	}
	if err := u.runBefore(ctx, hc); err != nil {
		return nil, err
	}

	if err := u.locks.Acquire(ctx, sessionID); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%d_%s", index, uuid.NewString())
	path, written, writeErr := u.writeChunkFile(ctx, sessionID, name, payload)

	if err := u.locks.Release(ctx, sessionID); err != nil {
		u.logger.Error("failed to release session lock", "session_id", sessionID, "error", err)
		if writeErr == nil {
			u.discardChunkFile(ctx, path)
			return nil, err
		}
	}
	if writeErr != nil {
		return nil, writeErr
	}

	if written > u.uploadCfg.MaxChunkSize {
		u.discardChunkFile(ctx, path)
		return nil, fmt.Errorf("%w: %d > %d bytes", domain.ErrChunkTooLarge, written, u.uploadCfg.MaxChunkSize)
	}

	digest, err := u.digestChunkFile(ctx, path)
	if err != nil {
		u.discardChunkFile(ctx, path)
		return nil, err
	}
	if !strings.EqualFold(digest, signature) {
		u.discardChunkFile(ctx, path)
		return nil, fmt.Errorf("%w: declared %s, computed %s", domain.ErrSignatureMismatch, signature, digest)
	}

	chunk, err := u.uow.ChunkRepo().Create(ctx, domain.UploadChunk{
		SessionID: sessionID,
		Name:      name,
		Size:      written,
		Operator:  operator,
	})
	if err != nil {
		return nil, err
	}

	if err := u.runAfter(ctx, hc, domain.Result{"id": chunk.ID, "name": chunk.Name, "size": chunk.Size}); err != nil {
		return nil, err
	}
	return chunk, nil
}

// writeChunkFile streams the payload into the session directory, creating the
// directory when absent.
func (u *uploadService) writeChunkFile(ctx context.Context, sessionID int64, name string, payload io.Reader) (string, int64, error) {
	session, err := u.uow.SessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return "", 0, err
	}
	if err := u.storage.EnsureDir(ctx, session.StorageLocation); err != nil {
		return "", 0, err
	}
	path := session.StorageLocation + "/" + name
	written, err := u.storage.Write(ctx, path, payload)
	if err != nil {
		return path, 0, err
	}
	return path, written, nil
}

func (u *uploadService) digestChunkFile(ctx context.Context, path string) (string, error) {
	rc, err := u.storage.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	verifier := u.verifier()
	if _, err := io.Copy(verifier, rc); err != nil {
		return "", err
	}
	return verifier.Sum(), nil
}

func (u *uploadService) discardChunkFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := u.storage.Delete(ctx, path); err != nil {
		u.logger.Error("failed to delete rejected chunk file", "path", path, "error", err)
	}
}
