package lock

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/config"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

type manager struct {
	sessions port.SessionRepository
	cfg      config.LockConfig
	logger   *slog.Logger
}

// NewManager creates the session lock manager. All three transitions run as
// read row, conditional update guarded by (id, version), retry on a missed
// guard. The store's atomic conditional update is the only synchronization.
func NewManager(sessions port.SessionRepository, cfg config.LockConfig, logger *slog.Logger) port.LockManager {
	return &manager{sessions: sessions, cfg: cfg, logger: logger}
}

// Acquire increments the lock counter by one, admitting a chunk writer
func (m *manager) Acquire(ctx context.Context, id int64) error {
	return m.retry(ctx, "acquire", id, func(ctx context.Context) (bool, error) {
		session, err := m.sessions.FindByID(ctx, id)
		if err != nil {
			return false, err
		}
		if session.Closed() {
			return false, domain.ErrSessionClosed
		}
		session.Lock++
		rows, err := m.sessions.Update(ctx, *session)
		if err != nil {
			return false, err
		}
		return rows > 0, nil
	})
}

// Release decrements the lock counter by one. It does not re-check the closed
// state: a release racing a concurrent close still has to run to completion.
func (m *manager) Release(ctx context.Context, id int64) error {
	return m.retry(ctx, "release", id, func(ctx context.Context) (bool, error) {
		session, err := m.sessions.FindByID(ctx, id)
		if err != nil {
			return false, err
		}
		session.Lock--
		rows, err := m.sessions.Update(ctx, *session)
		if err != nil {
			return false, err
		}
		return rows > 0, nil
	})
}

// Close transitions the lock counter from 0 to its terminal value
func (m *manager) Close(ctx context.Context, id int64) error {
	return m.retry(ctx, "close", id, func(ctx context.Context) (bool, error) {
		session, err := m.sessions.FindByID(ctx, id)
		if err != nil {
			return false, err
		}
		if session.Closed() {
			return false, domain.ErrSessionAlreadyClosed
		}
		if session.Lock > 0 {
			return false, domain.ErrActiveChunks
		}
		session.Lock = domain.LockClosed
		rows, err := m.sessions.Update(ctx, *session)
		if err != nil {
			return false, err
		}
		return rows > 0, nil
	})
}

// retry runs attempt immediately and, while the conditional update misses its
// version guard, up to cfg.MaxRetry more times, each preceded by a random
// delay in [0, cfg.RetryBase) so contending writers do not retry in lockstep.
// Errors from attempt are terminal; only a missed guard is retried.
func (m *manager) retry(ctx context.Context, op string, id int64, attempt func(ctx context.Context) (bool, error)) error {
	for i := 0; ; i++ {
		done, err := attempt(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if i >= m.cfg.MaxRetry {
			m.logger.Warn("session lock retries exhausted", "op", op, "session_id", id, "attempts", i+1)
			return domain.ErrRetryExhausted
		}
		delay := time.Duration(rand.Float64() * float64(m.cfg.RetryBase))
		m.logger.Debug("session lock contention, retrying", "op", op, "session_id", id, "delay", delay)
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
