package domain

import "errors"

// ErrSessionNotFound is an error thrown when session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrChunkNotFound is an error thrown when chunk is not found
var ErrChunkNotFound = errors.New("chunk not found")

// ErrSessionClosed is an error thrown when a writer targets a closed session
var ErrSessionClosed = errors.New("session closed")

// ErrSessionAlreadyClosed is an error thrown when closing a session twice
var ErrSessionAlreadyClosed = errors.New("session already closed")

// ErrActiveChunks is an error thrown when close finds acquired chunk writers
var ErrActiveChunks = errors.New("active chunk writers present")

// ErrRetryExhausted is an error thrown when the optimistic update budget runs out
var ErrRetryExhausted = errors.New("conditional update retries exhausted")

// ErrChunkTooLarge is an error thrown when a chunk exceeds the size limit
var ErrChunkTooLarge = errors.New("chunk size limit exceeded")

// ErrSignatureMismatch is an error thrown when digests disagree
var ErrSignatureMismatch = errors.New("signature mismatch")

// ErrNoChunks is an error thrown when close finds no chunk files to merge
var ErrNoChunks = errors.New("no chunks found")

// ErrHookRejected is an error thrown when a before hook vetoes the operation
var ErrHookRejected = errors.New("operation rejected by hook")
