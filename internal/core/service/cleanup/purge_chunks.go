package cleanup

import (
	"context"
	"errors"
	"time"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

// PurgeOrphanChunks walks chunk rows older than the retention boundary in
// ascending id order. For each one it removes the owning session's directory
// when the session still exists and then every chunk row of that session.
// Like the session purge, a failed pass simply ends early and reruns in full.
func (c *cleanupService) PurgeOrphanChunks(ctx context.Context, now time.Time) error {

	boundary := now.Add(-c.cfg.ChunkRetention)
	cursor := int64(0)

	for {
		chunk, err := c.uow.ChunkRepo().FindOldestAfter(ctx, cursor, boundary)
		if errors.Is(err, domain.ErrChunkNotFound) {
			c.logger.Info("orphan chunk purge completed", "cursor", cursor)
			return nil
		}
		if err != nil {
			return err
		}

		session, err := c.uow.SessionRepo().FindByID(ctx, chunk.SessionID)
		switch {
		case err == nil:
			if err := c.storage.Delete(ctx, session.StorageLocation); err != nil {
				return err
			}
		case errors.Is(err, domain.ErrSessionNotFound):
			// session row already gone, nothing on disk to locate
		default:
			return err
		}

		if _, err := c.uow.ChunkRepo().DeleteBySessionID(ctx, chunk.SessionID); err != nil {
			return err
		}

		c.logger.Info("purged orphan chunks", "session_id", chunk.SessionID, "oldest_chunk_id", chunk.ID)
		cursor = chunk.ID
	}
}
