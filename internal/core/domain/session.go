package domain

import "time"

// UploadSource tells how the bytes of a session arrived
type UploadSource string

const (
	UploadSourceSlice  UploadSource = "SLICE"
	UploadSourceSimple UploadSource = "SIMPLE"
)

// LockClosed is the terminal value of a session's lock counter.
// A session whose lock reached it never accepts another writer.
const LockClosed = -1

// UploadSession represents one chunked upload tracked in the store.
// Lock counts active chunk writers (>= 0) or is LockClosed; Version is the
// optimistic-concurrency stamp bumped on every successful mutation.
type UploadSession struct {
	ID              int64
	Name            string
	Size            int64
	Source          UploadSource
	StorageLocation string
	Owner           string
	Operator        string
	Lock            int
	Version         int64
	Rubbish         bool
	CreateTime      time.Time
	UpdateTime      time.Time
}

// Closed reports whether the session reached its terminal state
func (s *UploadSession) Closed() bool {
	return s.Lock == LockClosed
}

// UploadChunk represents one validated chunk file of a session.
// A row exists only for files that passed size and signature validation.
type UploadChunk struct {
	ID         int64
	SessionID  int64
	Name       string
	Size       int64
	Operator   string
	CreateTime time.Time
}
