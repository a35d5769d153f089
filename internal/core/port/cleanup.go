package port

import (
	"context"
	"time"
)

// CleanupService is service that handles the two reaper passes
type CleanupService interface {
	PurgeAbandonedSessions(ctx context.Context, now time.Time) error
	PurgeOrphanChunks(ctx context.Context, now time.Time) error
}
