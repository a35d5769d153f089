package cleanup

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/config"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

// Scheduler drives the two reaper passes as background tasks. Both schedules
// are randomized once at construction so a fleet of processes does not sweep
// in unison. Pass errors are logged and swallowed; the reaper never takes the
// host process down.
type Scheduler struct {
	service       port.CleanupService
	cfg           config.CleanupConfig
	logger        *slog.Logger
	sessionWindow time.Duration // offset of the daily session sweep window
	chunkTime     time.Duration // time of day of the daily chunk sweep
}

// NewScheduler creates a scheduler with freshly randomized daily slots
func NewScheduler(service port.CleanupService, cfg config.CleanupConfig, logger *slog.Logger) *Scheduler {
	day := 24 * time.Hour
	return &Scheduler{
		service:       service,
		cfg:           cfg,
		logger:        logger,
		sessionWindow: time.Duration(rand.Int64N(int64(day))),
		chunkTime:     time.Duration(rand.Int64N(int64(day))),
	}
}

// RunSessionSweep ticks every SessionSweepEvery and purges abandoned sessions
// whenever the tick lands inside the once-per-day window.
func (s *Scheduler) RunSessionSweep(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SessionSweepEvery)
	defer ticker.Stop()

	s.logger.Info("session sweep initialized",
		"interval", s.cfg.SessionSweepEvery,
		"window_offset", s.sessionWindow,
		"window_length", s.cfg.WindowLength,
	)

	for {
		select {
		case now := <-ticker.C:
			if !s.inSessionWindow(now) {
				continue
			}
			if err := s.service.PurgeAbandonedSessions(ctx, now); err != nil {
				s.logger.Error("abandoned session purge aborted", "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("session sweep stopped")
			return
		}
	}
}

// RunChunkSweep fires once per day at the randomized time of day
func (s *Scheduler) RunChunkSweep(ctx context.Context) {
	s.logger.Info("chunk sweep initialized", "time_of_day", s.chunkTime)

	for {
		timer := time.NewTimer(untilNext(time.Now(), s.chunkTime))
		select {
		case now := <-timer.C:
			if err := s.service.PurgeOrphanChunks(ctx, now); err != nil {
				s.logger.Error("orphan chunk purge aborted", "error", err)
			}
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("chunk sweep stopped")
			return
		}
	}
}

func (s *Scheduler) inSessionWindow(now time.Time) bool {
	return inDailyWindow(now, s.sessionWindow, s.cfg.WindowLength)
}

// inDailyWindow reports whether now falls inside [offset, offset+length)
// measured from local midnight, with wraparound past midnight.
func inDailyWindow(now time.Time, offset, length time.Duration) bool {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	elapsed := now.Sub(midnight)
	end := offset + length
	if end <= 24*time.Hour {
		return elapsed >= offset && elapsed < end
	}
	return elapsed >= offset || elapsed < end-24*time.Hour
}

// untilNext returns the duration from now to the next daily occurrence of the
// given time of day.
func untilNext(now time.Time, timeOfDay time.Duration) time.Duration {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	next := midnight.Add(timeOfDay)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
