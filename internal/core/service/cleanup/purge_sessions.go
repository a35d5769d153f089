package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
)

// PurgeAbandonedSessions walks sessions older than the retention boundary in
// ascending id order and removes each one: rubbish mark first, then the
// directory tree, then the session row and its chunk rows. Any failure ends
// the pass; the next scheduled run starts over from cursor zero, so a partial
// pass heals itself.
func (c *cleanupService) PurgeAbandonedSessions(ctx context.Context, now time.Time) error {

	boundary := now.Add(-c.cfg.SessionRetention)
	cursor := int64(0)

	for {
		session, err := c.uow.SessionRepo().FindOldestAfter(ctx, cursor, boundary)
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.logger.Info("abandoned session purge completed", "cursor", cursor)
			return nil
		}
		if err != nil {
			return err
		}

		marked := *session
		marked.Rubbish = true
		rows, err := c.uow.SessionRepo().Update(ctx, marked)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("session %d changed while marking rubbish", session.ID)
		}

		if err := c.storage.Delete(ctx, session.StorageLocation); err != nil {
			return err
		}
		if _, err := c.uow.SessionRepo().Delete(ctx, session.ID); err != nil {
			return err
		}
		if _, err := c.uow.ChunkRepo().DeleteBySessionID(ctx, session.ID); err != nil {
			return err
		}

		c.logger.Info("purged abandoned session", "session_id", session.ID, "created_at", session.CreateTime)
		cursor = session.ID
	}
}
