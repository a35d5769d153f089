package port

import "context"

// LockManager coordinates chunk writers against a session row through
// optimistic compare-and-swap updates; there is no in-process mutex anywhere.
type LockManager interface {
	// Acquire increments the session's lock counter by one. Fails with
	// domain.ErrSessionClosed once the session reached its terminal state.
	Acquire(ctx context.Context, id int64) error
	// Release decrements the lock counter by one.
	Release(ctx context.Context, id int64) error
	// Close transitions the lock counter from 0 to the terminal value. Fails
	// with domain.ErrSessionAlreadyClosed or domain.ErrActiveChunks.
	Close(ctx context.Context, id int64) error
}
